package tui

import (
	"testing"
	"time"

	"downhome-cli/internal/home"
	"downhome-cli/internal/model"
)

func TestDeleteQueueExpiry(t *testing.T) {
	t.Parallel()

	q := &deleteQueue{}
	var decisions []bool
	q.CanDelete([]model.OfflineItem{{ID: "a"}}, func(accept bool) {
		decisions = append(decisions, accept)
	})

	q.expire(time.Now())
	if len(decisions) != 0 {
		t.Fatalf("entry committed before its deadline")
	}

	q.expire(time.Now().Add(undoWindow + time.Second))
	if len(decisions) != 1 || !decisions[0] {
		t.Fatalf("expiry decisions = %v, want [true]", decisions)
	}
	if len(q.entries) != 0 {
		t.Fatalf("expired entry retained")
	}
}

func TestDeleteQueueUndoIsLIFO(t *testing.T) {
	t.Parallel()

	q := &deleteQueue{}
	var got []string
	reply := func(id string) func(bool) {
		return func(accept bool) {
			if !accept {
				got = append(got, id)
			}
		}
	}
	q.CanDelete([]model.OfflineItem{{ID: "first"}}, reply("first"))
	q.CanDelete([]model.OfflineItem{{ID: "second"}}, reply("second"))

	e, ok := q.undo()
	if !ok || e.items[0].ID != "second" {
		t.Fatalf("undo returned %+v", e)
	}
	e, ok = q.undo()
	if !ok || e.items[0].ID != "first" {
		t.Fatalf("second undo returned %+v", e)
	}
	if _, ok := q.undo(); ok {
		t.Fatalf("undo on empty queue succeeded")
	}
	if len(got) != 2 || got[0] != "second" || got[1] != "first" {
		t.Fatalf("cancel order = %v", got)
	}
}

func TestDeleteQueueFlushAllCommits(t *testing.T) {
	t.Parallel()

	q := &deleteQueue{}
	committed := 0
	for i := 0; i < 3; i++ {
		q.CanDelete(nil, func(accept bool) {
			if accept {
				committed++
			}
		})
	}
	q.flushAll()
	if committed != 3 {
		t.Fatalf("committed %d of 3 on flush", committed)
	}
	if len(q.entries) != 0 {
		t.Fatalf("entries retained after flush")
	}
}

func TestShareFlash(t *testing.T) {
	t.Parallel()

	p := home.SharePayload{
		Items: []model.OfflineItem{{ID: "a"}, {ID: "b"}},
		Infos: map[string]model.ShareInfo{
			"a": {URI: "file:///a.png"},
		},
	}
	if got := shareFlash(p); got != "Share: file:///a.png" {
		t.Fatalf("shareFlash = %q", got)
	}
	if got := shareFlash(home.SharePayload{Items: p.Items}); got != "Nothing to share" {
		t.Fatalf("empty shareFlash = %q", got)
	}
}

func TestModelWatcherDirtyTracking(t *testing.T) {
	t.Parallel()

	w := &modelWatcher{}
	if w.dirty {
		t.Fatalf("watcher starts dirty")
	}
	w.ItemsInserted(0, 1)
	if !w.dirty {
		t.Fatalf("insert did not mark dirty")
	}
	w.dirty = false
	w.PropertiesChanged()
	if !w.dirty {
		t.Fatalf("property change did not mark dirty")
	}
}
