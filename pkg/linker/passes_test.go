package linker

import "testing"

func TestIsCIdentifier(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"__start_my_section", true},
		{"_foo123", true},
		{"1leading_digit", false},
		{"has-dash", false},
		{"", false},
		{"_", true},
	}
	for _, c := range cases {
		if got := isCIdentifier(c.name); got != c.want {
			t.Errorf("isCIdentifier(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCopyrelAlign(t *testing.T) {
	cases := []struct {
		size uint64
		want uint64
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{4, 4},
		{7, 4},
		{8, 8},
		{15, 8},
		{16, 16},
		{4096, 16},
	}
	for _, c := range cases {
		if got := copyrelAlign(c.size); got != c.want {
			t.Errorf("copyrelAlign(%d) = %d, want %d", c.size, got, c.want)
		}
	}
}
