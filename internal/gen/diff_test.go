package gen

import "testing"

func TestDiff(t *testing.T) {
	if d := Diff([]byte("a\nb\n"), []byte("a\nb\n")); d != "" {
		t.Fatalf("identical inputs: %q", d)
	}
	got := Diff([]byte("a\nb\nc\n"), []byte("a\nB\nc\nd"))
	want := " a\n-b\n+B\n c\n+d\n"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
