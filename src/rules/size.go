package rules

import (
	"fmt"
	"strconv"
	"strings"
)

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize converts a human-readable size like "20MB" or "1.5GB" to bytes.
// A bare number is taken as bytes.
func ParseSize(s string) (int64, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	if in == "" {
		return 0, fmt.Errorf("size must not be empty")
	}
	if n, err := strconv.ParseInt(in, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("size must not be negative: %s", s)
		}
		return n, nil
	}
	for _, u := range sizeUnits {
		if !strings.HasSuffix(in, u.suffix) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(in, u.suffix)), 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid size %q; use formats like '20MB' or '1GB'", s)
		}
		return int64(v * float64(u.multiplier)), nil
	}
	return 0, fmt.Errorf("invalid size %q; use formats like '20MB' or '1GB'", s)
}

// FormatSize renders bytes with a binary unit suffix for summaries.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.2f GB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.2f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.2f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
