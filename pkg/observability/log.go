package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline, cache and HTTP events to a logger at debug
// level, and failures at error level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnCompileStart(_ context.Context, nodeCount int) {
	h.Logger.Debug("compiling conditions", "nodes", nodeCount)
}

func (h *LogHooks) OnCompileComplete(_ context.Context, conditionCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("compile failed", "err", err, "duration", d)
		return
	}
	h.Logger.Debug("compiled conditions", "conditions", conditionCount, "duration", d)
}

func (h *LogHooks) OnArchiveStart(_ context.Context, artifactCount int) {
	h.Logger.Debug("assembling archive", "artifacts", artifactCount)
}

func (h *LogHooks) OnArchiveComplete(_ context.Context, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("archive failed", "err", err, "duration", d)
		return
	}
	h.Logger.Debug("assembled archive", "bytes", size, "duration", d)
}

func (h *LogHooks) OnHostRead(_ context.Context, path string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("host read failed", "path", path, "err", err)
		return
	}
	h.Logger.Debug("host read", "path", path, "bytes", size, "duration", d)
}

func (h *LogHooks) OnHostWrite(_ context.Context, path string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Error("host write failed", "path", path, "err", err)
		return
	}
	h.Logger.Debug("host write", "path", path, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, path string) {
	h.Logger.Debug("artifact memo hit", "path", path)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, path string) {
	h.Logger.Debug("artifact memo miss", "path", path)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}
