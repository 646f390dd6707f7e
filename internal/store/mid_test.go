package store

import "testing"

func TestMidPriceLogLastEmpty(t *testing.T) {
	l := NewMidPriceLog()
	if _, ok := l.Last(); ok {
		t.Error("Last() on empty log reported a sample")
	}
}

func TestMidPriceLogAppendLast(t *testing.T) {
	l := NewMidPriceLog()
	l.Append(1000)
	l.Append(1005)

	v, ok := l.Last()
	if !ok || v != 1005 {
		t.Errorf("Last() = %d, %v, want 1005, true", v, ok)
	}
	if got := l.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestMidPriceLogTail(t *testing.T) {
	l := NewMidPriceLog()
	for _, v := range []int64{1, 2, 3, 4, 5} {
		l.Append(v)
	}

	tail := l.Tail(3)
	if len(tail) != 3 {
		t.Fatalf("Tail(3) returned %d samples, want 3", len(tail))
	}
	for i, want := range []int64{3, 4, 5} {
		if tail[i] != want {
			t.Errorf("Tail(3)[%d] = %d, want %d", i, tail[i], want)
		}
	}

	if got := len(l.Tail(0)); got != 5 {
		t.Errorf("Tail(0) returned %d samples, want 5", got)
	}
	if got := len(l.Tail(100)); got != 5 {
		t.Errorf("Tail(100) returned %d samples, want 5", got)
	}
}
