package domain

import (
	"reflect"
	"testing"
)

func TestNewSortTarget_SingleColumn(t *testing.T) {
	target, err := NewSortTarget("name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Kind != SortSingle || !reflect.DeepEqual(target.Columns, []string{"name"}) {
		t.Fatalf("unexpected target: %#v", target)
	}
}

func TestNewSortTarget_ColumnSequence(t *testing.T) {
	target, err := NewSortTarget([]string{"name", "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Kind != SortMultiple || !reflect.DeepEqual(target.Columns, []string{"name", "email"}) {
		t.Fatalf("unexpected target: %#v", target)
	}
}

func TestNewSortTarget_QualifiedMapping(t *testing.T) {
	target, err := NewSortTarget(map[string]string{"teams": "name", "users": "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Kind != SortQualified {
		t.Fatalf("unexpected kind: %v", target.Kind)
	}
	// Tables resolve in deterministic order.
	if !reflect.DeepEqual(target.Columns, []string{"teams.name", "users.email"}) {
		t.Fatalf("unexpected columns: %#v", target.Columns)
	}
}

func TestNewSortTarget_JSONShapes(t *testing.T) {
	target, err := NewSortTarget([]any{"name", "email"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Kind != SortMultiple {
		t.Fatalf("unexpected kind: %v", target.Kind)
	}

	target, err = NewSortTarget(map[string]any{"teams": "name"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if target.Kind != SortQualified || !reflect.DeepEqual(target.Columns, []string{"teams.name"}) {
		t.Fatalf("unexpected target: %#v", target)
	}
}

func TestNewSortTarget_EmptyShapesMeanNoSort(t *testing.T) {
	for _, value := range []any{nil, "", []string{}, map[string]string{}} {
		target, err := NewSortTarget(value)
		if err != nil {
			t.Fatalf("unexpected error for %#v: %v", value, err)
		}
		if !target.IsZero() {
			t.Fatalf("expected zero target for %#v, got %#v", value, target)
		}
	}
}

func TestNewSortTarget_UnsupportedShapeIsFatal(t *testing.T) {
	if _, err := NewSortTarget(42); err == nil {
		t.Fatal("expected error for unsupported sort shape")
	}
	if _, err := NewSortTarget([]any{"name", 7}); err == nil {
		t.Fatal("expected error for mixed sort sequence")
	}
	if _, err := NewSortTarget(map[string]any{"teams": 7}); err == nil {
		t.Fatal("expected error for non-string mapped column")
	}
}
