package ws

import (
	"sync"
	"testing"
)

func TestPublishFansOutToUserConnections(t *testing.T) {
	t.Parallel()
	h := NewHub()
	a := &Client{UserID: 1, Send: make(chan []byte, 1)}
	b := &Client{UserID: 1, Send: make(chan []byte, 1)}
	other := &Client{UserID: 2, Send: make(chan []byte, 1)}
	h.Register(a)
	h.Register(b)
	h.Register(other)

	h.PublishToUser(1, Event{Type: "quota_updated"})

	if len(a.Send) != 1 || len(b.Send) != 1 {
		t.Errorf("user 1 deliveries = %d/%d, want 1/1", len(a.Send), len(b.Send))
	}
	if len(other.Send) != 0 {
		t.Errorf("user 2 received %d messages, want 0", len(other.Send))
	}
}

func TestPublishAfterCloseDoesNotPanic(t *testing.T) {
	t.Parallel()
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	h.Register(c)
	c.Close()

	h.PublishToUser(1, Event{Type: "quota_updated"})

	if n := h.ClientCount(); n != 0 {
		t.Errorf("client count = %d after close, want 0", n)
	}
}

func TestPublishRacingCloseDoesNotPanic(t *testing.T) {
	t.Parallel()
	h := NewHub()
	for i := 0; i < 50; i++ {
		c := &Client{UserID: 1, Send: make(chan []byte, 1)}
		h.Register(c)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Close()
		}()
		go func() {
			defer wg.Done()
			h.PublishToUser(1, Event{Type: "quota_updated"})
		}()
		wg.Wait()
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	t.Parallel()
	h := NewHub()
	c := &Client{UserID: 1, Send: make(chan []byte, 1)}
	h.Register(c)

	h.PublishToUser(1, Event{Type: "quota_updated"})
	h.PublishToUser(1, Event{Type: "quota_updated"}) // buffer full, must not block

	if len(c.Send) != 1 {
		t.Errorf("buffered messages = %d, want 1", len(c.Send))
	}
}
