package keyword

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"ERR-001", "ERR-01", 1},
		{"ERR-001", "ERR-002", 1},
		{"timeout", "timeoot", 1},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := LevenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("LevenshteinDistance(%q, %q)=%d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLevenshteinSymmetric(t *testing.T) {
	if LevenshteinDistance("abcdef", "azced") != LevenshteinDistance("azced", "abcdef") {
		t.Error("distance not symmetric")
	}
}
