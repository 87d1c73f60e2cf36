package observer

import "testing"

func TestHubDropsForSlowSubscribers(t *testing.T) {
	h := NewHub(2)
	fastID, fast := h.Subscribe()
	_, slow := h.Subscribe()

	for i := 0; i < 5; i++ {
		h.Publish([]byte{byte(i)})
		if got := <-fast; got[0] != byte(i) {
			t.Fatalf("fast subscriber got frame %d, want %d", got[0], i)
		}
	}
	if got := len(slow); got != 2 {
		t.Fatalf("slow subscriber buffered %d frames, want 2", got)
	}
	if first := <-slow; first[0] != 0 {
		t.Fatalf("slow subscriber should keep the oldest frames, got %d", first[0])
	}
	if h.Dropped() != 3 {
		t.Fatalf("dropped = %d, want 3", h.Dropped())
	}

	h.Unsubscribe(fastID)
	if _, ok := <-fast; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}
	if h.Len() != 1 {
		t.Fatalf("len = %d", h.Len())
	}
	h.Unsubscribe(fastID)
}
