package helper

import "testing"

func TestHash8(t *testing.T) {
	a := Hash8("A@Example.com ")
	if len(a) != 16 {
		t.Fatalf("len=%d", len(a))
	}
	if a != Hash8("a@example.com") {
		t.Fatal("hash must ignore case and spaces")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abcdef", 3); got != "abc..." {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("привет", 2); got != "пр..." {
		t.Fatalf("got %q", got)
	}
}
