package scenario

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Warnings collects non-fatal findings on a scenario. Safe for concurrent
// use so fan-out imports can record warnings without coordination.
type Warnings struct {
	mu    sync.Mutex
	items []string
}

// Addf records a formatted warning.
func (w *Warnings) Addf(format string, args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, fmt.Sprintf(format, args...))
}

// Items returns a copy of the recorded warnings.
func (w *Warnings) Items() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.items...)
}

// Len returns the number of recorded warnings.
func (w *Warnings) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.items)
}

// Log writes every recorded warning to the logger, prefixed for context.
func (w *Warnings) Log(log *zap.Logger, prefix string) {
	if log == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, item := range w.items {
		log.Warn(prefix + item)
	}
}
