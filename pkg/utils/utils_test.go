package utils

import "testing"

func TestAlignTo(t *testing.T) {
	cases := []struct {
		val, align, want uint64
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{5, 0, 5},
		{17, 16, 32},
	}
	for _, c := range cases {
		if got := AlignTo(c.val, c.align); got != c.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", c.val, c.align, got, c.want)
		}
	}
}

func TestRemoveIf(t *testing.T) {
	in := []int{1, 2, 3, 4, 5, 6}
	got := RemoveIf(in, func(n int) bool { return n%2 == 0 })
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("RemoveIf length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("RemoveIf[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestRemoveIfKeepsAllWhenConditionNeverMatches(t *testing.T) {
	in := []string{"a", "b", "c"}
	got := RemoveIf(in, func(string) bool { return false })
	if len(got) != 3 {
		t.Fatalf("expected all elements kept, got %v", got)
	}
}

func TestRemovePrefix(t *testing.T) {
	if s, ok := RemovePrefix("-lc", "-l"); !ok || s != "c" {
		t.Errorf("RemovePrefix(-lc, -l) = %q, %v", s, ok)
	}
	if _, ok := RemovePrefix("foo", "-l"); ok {
		t.Errorf("RemovePrefix(foo, -l) unexpectedly matched")
	}
}

func TestBitCeil(t *testing.T) {
	cases := map[uint64]uint64{
		1: 1, 2: 2, 3: 4, 5: 8, 9: 16, 16: 16, 17: 32,
	}
	for in, want := range cases {
		if got := BitCeil(in); got != want {
			t.Errorf("BitCeil(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestAllZeros(t *testing.T) {
	if !AllZeros([]byte{0, 0, 0}) {
		t.Error("expected all-zero slice to report true")
	}
	if AllZeros([]byte{0, 1, 0}) {
		t.Error("expected non-zero slice to report false")
	}
}
