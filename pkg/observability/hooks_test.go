package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	f := NoopFilterHooks{}
	f.OnGraphBuilt(ctx, 12, 20, 1, time.Millisecond)
	f.OnSelectorResolved(ctx, "foo...", 3)
	f.OnFilterComplete(ctx, 4, 0, time.Millisecond, nil)

	c := NoopChangesHooks{}
	c.OnDiffResolved(ctx, "origin/main", 2, 1, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Filter().(NoopFilterHooks); !ok {
		t.Error("Filter() should return NoopFilterHooks by default")
	}
	if _, ok := Changes().(NoopChangesHooks); !ok {
		t.Error("Changes() should return NoopChangesHooks by default")
	}

	customFilter := &testFilterHooks{}
	SetFilterHooks(customFilter)
	if Filter() != customFilter {
		t.Error("SetFilterHooks should set custom hooks")
	}

	customChanges := &testChangesHooks{}
	SetChangesHooks(customChanges)
	if Changes() != customChanges {
		t.Error("SetChangesHooks should set custom hooks")
	}

	Reset()
	if _, ok := Filter().(NoopFilterHooks); !ok {
		t.Error("Reset() should restore NoopFilterHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testFilterHooks{}
	SetFilterHooks(custom)
	SetFilterHooks(nil)

	if Filter() != custom {
		t.Error("SetFilterHooks(nil) should be ignored")
	}

	Reset()
}

type testFilterHooks struct{ NoopFilterHooks }
type testChangesHooks struct{ NoopChangesHooks }
