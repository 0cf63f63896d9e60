package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseSnapshotID tests snapshot ID parsing
func TestParseSnapshotID(t *testing.T) {
	valid := NewSnapshotID()

	tests := []struct {
		input    string
		expected SnapshotID
		hasError bool
	}{
		{valid.String(), valid, false},
		{"  " + valid.String() + " ", valid, false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, test := range tests {
		result, err := ParseSnapshotID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestComputeCohortHash_OrderInsensitive(t *testing.T) {
	filters := map[string]interface{}{"sex": []string{"Male"}, "age_min": 0.0}
	a := ComputeCohortHash([]string{"3", "1", "2"}, filters)
	b := ComputeCohortHash([]string{"1", "2", "3"}, map[string]interface{}{"age_min": 0.0, "sex": []string{"Male"}})

	if a != b {
		t.Errorf("Expected identical cohort hashes, got %s vs %s", a, b)
	}

	c := ComputeCohortHash([]string{"1", "2"}, filters)
	if a == c {
		t.Error("Expected different cohorts to hash differently")
	}
}

func TestComputeDatasetHash_RowBoundaries(t *testing.T) {
	a := ComputeDatasetHash([]string{"x"}, [][]string{{"ab"}, {"c"}})
	b := ComputeDatasetHash([]string{"x"}, [][]string{{"a"}, {"bc"}})
	if a == b {
		t.Error("Expected row boundaries to change the dataset hash")
	}
	if len(Hash(a).Short()) != 12 {
		t.Errorf("Expected 12-char short hash, got %q", Hash(a).Short())
	}
}
