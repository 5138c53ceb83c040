package version

import "testing"

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0", "1.0.0", 0},
		{"2.0.0", "1.9.9", 1},
		{"1.9.9", "2.0.0", -1},
		{"0.0.100", "0.0.99", 1},
		{"0.0.29-dev", "0.0.28", 1},
		{"0.0.28-alpha", "0.0.28", 0},
		{"0.0.29+build123", "0.0.28", 1},
		{"v1.2.0", "1.1.9", 1},
		{"0.1.0", "", 1},
		{"", "", 0},
		{"1.x.3", "1.3", -1},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_vs_"+tt.b, func(t *testing.T) {
			if got := Compare(tt.a, tt.b); got != tt.expected {
				t.Errorf("Compare(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		version  string
		expected bool
	}{
		{"1.2.3", true},
		{"v0.1.0-dev", true},
		{"", false},
		{"unknown", false},
		{"abc.1", false},
		{"1.x.3", false},
		{"1..2", false},
		{"v", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := IsValid(tt.version); got != tt.expected {
				t.Errorf("IsValid(%q) = %v, want %v", tt.version, got, tt.expected)
			}
		})
	}
}
