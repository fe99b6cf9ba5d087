package types

import "testing"

func TestSafeInteger(t *testing.T) {
	cases := map[int]bool{
		0:             true,
		-3:            true,
		3_000_000_000: true,
		1<<53 - 1:     true,
		-(1<<53 - 1):  true,
		1 << 53:       false,
		-(1 << 53):    false,
	}
	for n, want := range cases {
		if got := SafeInteger(n); got != want {
			t.Fatalf("SafeInteger(%d) = %t, want %t", n, got, want)
		}
	}
}
