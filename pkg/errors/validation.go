package errors

import (
	"path"
	"slices"
	"strings"
	"unicode"
)

const maxPathLength = 500

// ValidatePath validates a host-relative output path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(p string) error {
	if p == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if err := checkLengthAndChars(p); err != nil {
		return err
	}

	// Must not be absolute path
	if strings.HasPrefix(p, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	// Check for path traversal
	if strings.Contains(p, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	// No backslashes (potential Windows path injection)
	if strings.Contains(p, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// NormalizeTargetDir converts an artifact's target directory into the
// forward-slash form used inside the archive. The empty string and "."
// denote the archive root and yield "".
//
// Backslashes are treated as separators. A leading slash is dropped.
// The directory must stay inside the archive root after cleaning.
func NormalizeTargetDir(dir string) (string, error) {
	if err := checkLengthAndChars(dir); err != nil {
		return "", err
	}
	slashed := strings.ReplaceAll(dir, "\\", "/")
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", New(ErrCodeInvalidPath, "target directory %q escapes the archive root", dir)
		}
	}
	return strings.TrimPrefix(path.Clean("/"+slashed), "/"), nil
}

// ArtifactBaseName returns the last component of a local artifact path.
// Trailing slashes and "." components are ignored, so "/course/notes.md/"
// yields "notes.md". Paths ending in "..", and paths with no components
// such as "", "/" or ".", have no file name and are rejected.
func ArtifactBaseName(localFile string) (string, error) {
	if err := checkLengthAndChars(localFile); err != nil {
		return "", err
	}
	slashed := strings.ReplaceAll(localFile, "\\", "/")
	segs := strings.FieldsFunc(slashed, func(r rune) bool { return r == '/' })
	segs = slices.DeleteFunc(segs, func(s string) bool { return s == "." })
	if len(segs) == 0 {
		return "", New(ErrCodeInvalidPath, "artifact %q has no file name", localFile)
	}
	base := segs[len(segs)-1]
	if base == ".." {
		return "", New(ErrCodeInvalidPath, "artifact %q has no file name", localFile)
	}
	return base, nil
}

// ArchiveEntryName joins a normalised target directory and a base name.
func ArchiveEntryName(dir, base string) string {
	if dir == "" {
		return base
	}
	return dir + "/" + base
}

func checkLengthAndChars(p string) error {
	if len(p) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range p {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
