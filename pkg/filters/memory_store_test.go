package filters

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	meta, err := store.Save(ctx, Filter{Name: "web-main", Expression: `ProcessName == "web"`, Enabled: true})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if meta.Revision != 1 || meta.UpdatedAt.IsZero() {
		t.Fatalf("unexpected meta: %+v", meta)
	}

	loaded, loadedMeta, ok, err := store.Load(ctx, "web-main")
	if err != nil || !ok {
		t.Fatalf("Load failed: ok=%v err=%v", ok, err)
	}
	if loaded.Expression != `ProcessName == "web"` || !loaded.Enabled {
		t.Fatalf("unexpected filter: %+v", loaded)
	}
	if loadedMeta.Revision != 1 {
		t.Fatalf("unexpected revision: %d", loadedMeta.Revision)
	}

	meta, err = store.Save(ctx, Filter{Name: "web-main", Expression: "ProcessId == 4"})
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if meta.Revision != 2 {
		t.Fatalf("expected revision bump, got %d", meta.Revision)
	}
}

func TestMemoryStoreValidatorRejectsBadExpressions(t *testing.T) {
	errBad := errors.New("unexpected token")
	store := NewMemoryStore(WithValidator(func(expression string) error {
		if strings.Contains(expression, ")") {
			return errBad
		}
		return nil
	}))

	if _, err := store.Save(context.Background(), Filter{Name: "broken", Expression: "ProcessId == )"}); !errors.Is(err, errBad) {
		t.Fatalf("expected validator error, got %v", err)
	}
	if _, _, ok, _ := store.Load(context.Background(), "broken"); ok {
		t.Fatalf("rejected filter must not be stored")
	}
}

func TestMemoryStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := store.Save(ctx, Filter{Name: name, Expression: "ThreadId > 0"}); err != nil {
			t.Fatalf("Save(%q) failed: %v", name, err)
		}
	}

	if err := store.Delete(ctx, "mid"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "mid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zeta" {
		t.Fatalf("expected sorted [alpha zeta], got %+v", list)
	}
}

func TestMemoryStoreRequiredFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Save(ctx, Filter{Expression: "ThreadId > 0"}); err == nil {
		t.Fatalf("expected missing name to fail")
	}
	if _, err := store.Save(ctx, Filter{Name: "empty"}); err == nil {
		t.Fatalf("expected missing expression to fail")
	}
	if _, _, _, err := store.Load(ctx, ""); err == nil {
		t.Fatalf("expected missing name to fail")
	}
}
