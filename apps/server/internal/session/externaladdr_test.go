package session

import "testing"

func TestExternalAddr_QueuesUntilBound(t *testing.T) {
	var addr ExternalAddr[int]
	var got []int
	addr.Send(func(h int) { got = append(got, h) })
	addr.Send(func(h int) { got = append(got, h*10) })
	if len(got) != 0 {
		t.Fatalf("expected sends to queue before Bind, got %v", got)
	}
	addr.Bind(5)
	if want := []int{5, 50}; !equalInts(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExternalAddr_SendAfterBindRunsImmediately(t *testing.T) {
	var addr ExternalAddr[int]
	addr.Bind(7)
	var got int
	addr.Send(func(h int) { got = h })
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestExternalAddr_UnbindQueuesAgain(t *testing.T) {
	var addr ExternalAddr[int]
	addr.Bind(1)
	addr.Unbind()
	if addr.Bound() {
		t.Fatalf("expected Bound() false after Unbind")
	}
	ran := false
	addr.Send(func(h int) { ran = true })
	if ran {
		t.Fatalf("expected send to queue after Unbind, not run immediately")
	}
	addr.Bind(2)
	if !ran {
		t.Fatalf("expected queued send to run once rebound")
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
