package version

import (
	"strconv"
	"strings"
)

// Compare compares two dotted versions such as "1.2.3" or "v0.4.0-dev"
// and returns -1, 0 or 1. A leading "v" and any pre-release or build
// suffix are ignored; missing parts count as zero. A version that is
// not valid (see IsValid) compares as 0.0.0.
func Compare(a, b string) int {
	aParts, _ := parse(a)
	bParts, _ := parse(b)

	for i := 0; i < len(aParts) || i < len(bParts); i++ {
		x, y := part(aParts, i), part(bParts, i)
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

// IsValid reports whether every dotted part of v is a non-negative integer
func IsValid(v string) bool {
	_, ok := parse(v)
	return ok
}

func part(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// parse splits a version into its numeric parts. Any empty or
// non-numeric part makes the whole version invalid.
func parse(v string) ([]int, bool) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i != -1 {
		v = v[:i]
	}
	if v == "" {
		return nil, false
	}

	fields := strings.Split(v, ".")
	parts := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, false
		}
		parts[i] = n
	}
	return parts, true
}
