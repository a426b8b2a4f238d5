package domain

import (
	"reflect"
	"testing"
)

func TestFilterInput_FieldNamesAreSorted(t *testing.T) {
	filters := FilterInput{
		"name":   {"1": {Value: "ann"}},
		"age":    {"1": {Value: "18.."}},
		"active": {"1": {Value: "true"}},
	}

	if got := filters.FieldNames(); !reflect.DeepEqual(got, []string{"active", "age", "name"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestFilterInput_NumericIndexesSortNumerically(t *testing.T) {
	filters := FilterInput{
		"name": {
			"10": {Value: "c"},
			"2":  {Value: "a"},
			"9":  {Value: "b"},
		},
	}

	if got := filters.OrderedIndexes("name"); !reflect.DeepEqual(got, []string{"2", "9", "10"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestFilterInput_OpaqueIndexesSortLexicographically(t *testing.T) {
	filters := FilterInput{
		"name": {
			"b": {Value: "x"},
			"a": {Value: "y"},
		},
	}

	if got := filters.OrderedIndexes("name"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected order: %v", got)
	}
}
