package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports graph, filter and diff events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnGraphBuilt(_ context.Context, nodes, edges, unresolved int, d time.Duration) {
	h.logger.Debug("graph built", "projects", nodes, "edges", edges, "unresolved", unresolved, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnSelectorResolved(_ context.Context, selector string, entries int) {
	h.logger.Debug("selector resolved", "selector", selector, "entries", entries)
}

func (h *logHooks) OnFilterComplete(_ context.Context, selected, unmatched int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("filter failed", "err", err, "took", d.Round(time.Microsecond))
		return
	}
	h.logger.Debug("filter complete", "selected", selected, "unmatched", unmatched, "took", d.Round(time.Microsecond))
}

func (h *logHooks) OnDiffResolved(_ context.Context, ref string, changed, testOnly int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("diff failed", "ref", ref, "err", err)
		return
	}
	h.logger.Debug("diff resolved", "ref", ref, "changed", changed, "test_only", testOnly, "took", d.Round(time.Millisecond))
}
