package result

import (
	"testing"

	"github.com/kailas-cloud/assessrank/internal/domain/catalog"
)

func mustItem(t *testing.T, id string) catalog.Item {
	t.Helper()
	item, err := catalog.New(id, "description of "+id, catalog.Attributes{Name: "Name " + id})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return item
}

func TestNew(t *testing.T) {
	r := New(mustItem(t, "doc-1"), 0.95, 3)

	if r.ID() != "doc-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Score() != 0.95 {
		t.Errorf("Score() = %f", r.Score())
	}
	if r.Index() != 3 {
		t.Errorf("Index() = %d", r.Index())
	}
	item := r.Item()
	if item.Name() != "Name doc-1" {
		t.Errorf("Item().Name() = %q", item.Name())
	}
}

func TestIDs(t *testing.T) {
	results := []Result{
		New(mustItem(t, "b"), 0.9, 1),
		New(mustItem(t, "a"), 0.5, 0),
	}
	ids := IDs(results)
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Errorf("IDs() = %v", ids)
	}
	if got := IDs(nil); len(got) != 0 {
		t.Errorf("IDs(nil) = %v", got)
	}
}

func TestAboveScore(t *testing.T) {
	results := []Result{
		New(mustItem(t, "a"), 0.9, 0),
		New(mustItem(t, "b"), 0.0, 1),
		New(mustItem(t, "c"), 0.4, 2),
		New(mustItem(t, "d"), 0.2, 3),
	}

	got := IDs(AboveScore(results, 0))
	want := []string{"a", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("AboveScore(0) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AboveScore(0)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := AboveScore(results, 0.5); len(got) != 1 || got[0].ID() != "a" {
		t.Errorf("AboveScore(0.5) = %v", IDs(got))
	}
}

func TestRefs(t *testing.T) {
	results := []Result{New(mustItem(t, "a"), 0.9, 4), New(mustItem(t, "b"), 0.1, 0)}

	refs := Refs(results)
	if len(refs) != 2 {
		t.Fatalf("len = %d", len(refs))
	}
	if refs[0] != (Ref{Index: 4, Score: 0.9}) || refs[1] != (Ref{Index: 0, Score: 0.1}) {
		t.Errorf("Refs() = %+v", refs)
	}
	if got := Refs(nil); len(got) != 0 {
		t.Errorf("Refs(nil) = %+v", got)
	}
}
