package rules

import "testing"

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"123", 123, true},
		{"0", 0, true},
		{"20MB", 20 * 1024 * 1024, true},
		{"1GB", 1 << 30, true},
		{"2TB", 2 << 40, true},
		{"1.5KB", 1536, true},
		{"10kb", 10 * 1024, true},
		{" 5 MB ", 5 * 1024 * 1024, true},
		{"100B", 100, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
		{"-5MB", 0, false},
		{"MB", 0, false},
	}
	for _, c := range cases {
		got, err := ParseSize(c.in)
		if c.ok && err != nil {
			t.Errorf("ParseSize(%q) error: %v", c.in, err)
			continue
		}
		if !c.ok {
			if err == nil {
				t.Errorf("ParseSize(%q) = %d, want error", c.in, got)
			}
			continue
		}
		if got != c.want {
			t.Errorf("ParseSize(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatSize(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{100, "100 B"},
		{2048, "2.00 KB"},
		{20 * 1024 * 1024, "20.00 MB"},
		{3 << 30, "3.00 GB"},
	}
	for _, c := range cases {
		if got := FormatSize(c.in); got != c.want {
			t.Errorf("FormatSize(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
