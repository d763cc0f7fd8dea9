package util

import "testing"

func TestPrefixerWithPrefix(t *testing.T) {
	cases := []struct {
		prefix, key, want string
	}{
		{"", "k", "k"},
		{"app:", "k", "app:k"},
		{"app:", "", "app:"},
	}
	for _, tc := range cases {
		if got := (Prefixer{Prefix: tc.prefix}).WithPrefix(tc.key); got != tc.want {
			t.Fatalf("WithPrefix(%q,%q)=%q want %q", tc.prefix, tc.key, got, tc.want)
		}
	}
}

func TestHashKeyDeterministic(t *testing.T) {
	type req struct {
		ID   int
		Name string
	}
	a := HashKey(req{ID: 1, Name: "x"})
	b := HashKey(req{ID: 1, Name: "x"})
	c := HashKey(req{ID: 2, Name: "x"})
	if a != b {
		t.Fatalf("same request hashed differently: %q vs %q", a, b)
	}
	if a == c {
		t.Fatalf("different requests share a key: %q", a)
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d (%q)", len(a), a)
	}
}

func TestHashKeyUnmarshalableFallsBack(t *testing.T) {
	ch := make(chan int)
	if got := HashKey(ch); len(got) != 16 {
		t.Fatalf("expected fallback hash, got %q", got)
	}
}

func TestDescribeClips(t *testing.T) {
	got := Describe("p:", "abcdefghij", map[string]string{"user": "someone-long"})
	want := `p:abcdef({"user":"som)`
	if got != want {
		t.Fatalf("Describe=%q want %q", got, want)
	}
}
