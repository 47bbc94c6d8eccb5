// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about graph construction, selector resolution and VCS
// change detection.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetFilterHooks(&myFilterHooks{})
//	    observability.SetChangesHooks(&myChangesHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Filter().OnGraphBuilt(ctx, nodes, edges, unresolved, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Filter Hooks
// =============================================================================

// FilterHooks receives events from graph building and filtering.
type FilterHooks interface {
	// OnGraphBuilt records a finished dependency graph.
	OnGraphBuilt(ctx context.Context, nodes, edges, unresolved int, duration time.Duration)

	// OnSelectorResolved records how many entry projects a selector matched.
	OnSelectorResolved(ctx context.Context, selector string, entries int)

	// OnFilterComplete records the outcome of a filtering pass.
	OnFilterComplete(ctx context.Context, selected, unmatched int, duration time.Duration, err error)
}

// =============================================================================
// Changes Hooks
// =============================================================================

// ChangesHooks receives events from changed-files detection.
type ChangesHooks interface {
	// OnDiffResolved records the projects found changed since ref.
	OnDiffResolved(ctx context.Context, ref string, changed, testOnly int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFilterHooks is a no-op implementation of FilterHooks.
type NoopFilterHooks struct{}

func (NoopFilterHooks) OnGraphBuilt(context.Context, int, int, int, time.Duration)       {}
func (NoopFilterHooks) OnSelectorResolved(context.Context, string, int)                  {}
func (NoopFilterHooks) OnFilterComplete(context.Context, int, int, time.Duration, error) {}

// NoopChangesHooks is a no-op implementation of ChangesHooks.
type NoopChangesHooks struct{}

func (NoopChangesHooks) OnDiffResolved(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	filterHooks  FilterHooks  = NoopFilterHooks{}
	changesHooks ChangesHooks = NoopChangesHooks{}
	hooksMu      sync.RWMutex
)

// SetFilterHooks registers custom filter hooks.
// This should be called once at application startup before any filtering.
func SetFilterHooks(h FilterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		filterHooks = h
	}
}

// SetChangesHooks registers custom changed-files hooks.
func SetChangesHooks(h ChangesHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		changesHooks = h
	}
}

// Filter returns the registered filter hooks.
func Filter() FilterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return filterHooks
}

// Changes returns the registered changed-files hooks.
func Changes() ChangesHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return changesHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	filterHooks = NoopFilterHooks{}
	changesHooks = NoopChangesHooks{}
}
