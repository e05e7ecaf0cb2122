package pipeline

import (
	"context"
	goerrors "errors"
	"fmt"
	stdio "io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/v-nys/lblp-build-zip-plugin/pkg/analysis"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/archive"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/errors"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/host"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/observability"
	"github.com/v-nys/lblp-build-zip-plugin/pkg/unlock"
)

// Runner executes the archive pipeline against a host.
//
// The Runner is stateless apart from its configuration; it does not keep
// results between runs. Multiple goroutines can safely share a Runner.
type Runner struct {
	Host        host.Host
	Logger      *log.Logger
	Hooks       observability.PipelineHooks
	CacheHooks  observability.CacheHooks
	ArchiveName string
	MemoSize    int
}

// NewRunner creates a runner for h. If logger is nil, logs are discarded.
// Hooks default to the globally registered ones.
func NewRunner(h host.Host, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.NewWithOptions(stdio.Discard, log.Options{})
	}
	return &Runner{
		Host:        h,
		Logger:      logger,
		Hooks:       observability.Pipeline(),
		CacheHooks:  observability.Cache(),
		ArchiveName: DefaultArchiveName,
		MemoSize:    DefaultMemoSize,
	}
}

// ProcessPaths is the package-level entry point: it runs the full pipeline
// on h with default settings and returns the processing result.
func ProcessPaths(ctx context.Context, h host.Host, payload *ArchivePayload) (*ProcessingResult, error) {
	res, err := NewRunner(h, nil).ProcessPaths(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &res.ProcessingResult, nil
}

// ProcessPaths builds the archive for payload and writes it to the host.
// Every failure is returned as an *errors.Error, except context
// cancellation which is returned as is.
func (r *Runner) ProcessPaths(ctx context.Context, payload *ArchivePayload) (*Result, error) {
	if r.Host == nil {
		return nil, errors.New(errors.ErrCodeInternal, "runner has no host")
	}
	res, err := r.Build(ctx, payload, r.Host)
	if err != nil {
		return nil, err
	}
	logger := r.logger().With("run", res.RunID)

	writeStart := time.Now()
	err = r.Host.WriteBytes(ctx, res.ArchiveName, res.Archive)
	res.Stats.WriteTime = time.Since(writeStart)
	r.hooks().OnHostWrite(ctx, res.ArchiveName, len(res.Archive), res.Stats.WriteTime, err)
	if err != nil {
		return nil, tag(errors.ErrCodeWriteFailed, err, "write %s", res.ArchiveName)
	}
	res.Stats.Duration += res.Stats.WriteTime

	logger.Info("wrote archive",
		"path", res.ArchiveName,
		"bytes", res.Stats.ArchiveSize,
		"digest", res.Digest,
		"duration", res.Stats.Duration)
	return res, nil
}

// Build runs every step except the final write: it validates the payload,
// compiles the conditions and assembles the archive, reading artifacts
// through reader.
func (r *Runner) Build(ctx context.Context, payload *ArchivePayload, reader host.Reader) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:       uuid.NewString(),
		ArchiveName: r.ArchiveName,
	}
	if res.ArchiveName == "" {
		res.ArchiveName = DefaultArchiveName
	}
	logger := r.logger().With("run", res.RunID)

	// Step 1: Validate
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidatePath(res.ArchiveName); err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, errors.New(errors.ErrCodeInternal, "no host reader")
	}
	rs := payload.RootedSupercluster
	res.HashSet = slices.Clone(payload.ArtifactMapping)
	if res.HashSet == nil {
		res.HashSet = []archive.ArtifactMapping{}
	}
	res.Stats.NodeCount = rs.Graph.NodeCount()
	res.Stats.EdgeCount = rs.Graph.EdgeCount()
	res.Stats.RootCount = rs.Roots.Len()

	// Step 2: Compile
	compileStart := time.Now()
	r.hooks().OnCompileStart(ctx, res.Stats.NodeCount)
	cm, err := unlock.Compile(rs)
	res.Stats.CompileTime = time.Since(compileStart)
	r.hooks().OnCompileComplete(ctx, len(cm), res.Stats.CompileTime, err)
	if err != nil {
		if goerrors.Is(err, analysis.ErrCycle) {
			return nil, errors.Wrap(errors.ErrCodeCycle, err, "hard prerequisites contain a cycle")
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "compile conditions")
	}
	res.Conditions = cm
	res.Stats.ConditionCount = len(cm)

	logger.Info("compiled conditions",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"roots", res.Stats.RootCount,
		"duration", res.Stats.CompileTime)

	// Step 3: Assemble
	mappings := uniqueMappings(payload.ArtifactMapping)
	res.Stats.ArtifactCount = len(mappings)

	archiveStart := time.Now()
	r.hooks().OnArchiveStart(ctx, len(mappings))
	data, memoHits, err := r.assemble(ctx, payload, cm, mappings, reader)
	res.Stats.ArchiveTime = time.Since(archiveStart)
	r.hooks().OnArchiveComplete(ctx, len(data), res.Stats.ArchiveTime, err)
	if err != nil {
		return nil, err
	}
	res.Archive = data
	res.Digest = archive.Digest(data)
	res.Stats.ArchiveSize = len(data)
	res.Stats.MemoHits = memoHits
	res.Stats.Duration = time.Since(start)

	logger.Info("assembled archive",
		"artifacts", res.Stats.ArtifactCount,
		"bytes", res.Stats.ArchiveSize,
		"memo_hits", memoHits,
		"duration", res.Stats.ArchiveTime)
	return res, nil
}

func (r *Runner) assemble(ctx context.Context, payload *ArchivePayload, cm unlock.ConditionMap, mappings []archive.ArtifactMapping, reader host.Reader) ([]byte, int64, error) {
	a := archive.New()
	if err := a.AddGraph(payload.RootedSupercluster); err != nil {
		return nil, 0, tag(errors.ErrCodeArchiveFailed, err, "add graph")
	}

	memo := host.NewMemo(&observedReader{reader: reader, hooks: r.hooks()}, r.MemoSize)
	cached := &cachedReader{memo: memo, hooks: r.cacheHooks()}
	if err := a.AddArtifacts(ctx, cached, mappings); err != nil {
		if goerrors.Is(err, archive.ErrDuplicateEntry) {
			return nil, 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "artifact mapping")
		}
		return nil, memo.Hits(), tag(errors.ErrCodeArchiveFailed, err, "add artifacts")
	}

	if err := a.AddConditions(cm); err != nil {
		if goerrors.Is(err, archive.ErrDuplicateEntry) {
			return nil, memo.Hits(), errors.Wrap(errors.ErrCodeInvalidInput, err, "artifact mapping")
		}
		return nil, memo.Hits(), tag(errors.ErrCodeArchiveFailed, err, "add conditions")
	}
	data, err := a.Finish()
	if err != nil {
		return nil, memo.Hits(), tag(errors.ErrCodeArchiveFailed, err, "finish archive")
	}
	return data, memo.Hits(), nil
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.NewWithOptions(stdio.Discard, log.Options{})
	}
	return r.Logger
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks == nil {
		return observability.Pipeline()
	}
	return r.Hooks
}

func (r *Runner) cacheHooks() observability.CacheHooks {
	if r.CacheHooks == nil {
		return observability.Cache()
	}
	return r.CacheHooks
}

// tag wraps err with code unless it already carries one or is a context
// error.
func tag(code errors.Code, err error, format string, args ...any) error {
	if errors.GetCode(err) != "" {
		return err
	}
	if goerrors.Is(err, context.Canceled) || goerrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(code, err, format, args...)
}

// uniqueMappings drops exact repeats, keeping first occurrences in order.
func uniqueMappings(in []archive.ArtifactMapping) []archive.ArtifactMapping {
	seen := make(map[archive.ArtifactMapping]struct{}, len(in))
	out := make([]archive.ArtifactMapping, 0, len(in))
	for _, m := range in {
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// observedReader reports every host read to the pipeline hooks.
type observedReader struct {
	reader host.Reader
	hooks  observability.PipelineHooks
}

func (o *observedReader) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := o.reader.ReadBytes(ctx, path)
	o.hooks.OnHostRead(ctx, path, len(data), time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("host read: %w", err)
	}
	return data, nil
}

// cachedReader reports memo hits and misses to the cache hooks.
type cachedReader struct {
	memo  *host.Memo
	hooks observability.CacheHooks
}

func (c *cachedReader) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	if c.memo.Contains(path) {
		c.hooks.OnCacheHit(ctx, path)
	} else {
		c.hooks.OnCacheMiss(ctx, path)
	}
	return c.memo.ReadBytes(ctx, path)
}
