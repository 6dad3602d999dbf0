package server

import (
	"testing"
	"time"
)

func TestHubRegisterQueuesInitialFrame(t *testing.T) {
	h := NewHub(quietLogger())
	go h.Run()
	defer h.Stop()

	c := NewClient(h, nil, "spectator")
	if !h.Register(c, []byte("hello")) {
		t.Fatal("Register refused a spectator on a running hub")
	}
	if h.ClientCount() != 1 {
		t.Errorf("ClientCount = %d, want 1", h.ClientCount())
	}

	h.broadcast <- []byte("frame")
	for _, want := range []string{"hello", "frame"} {
		select {
		case got := <-c.send:
			if string(got) != want {
				t.Errorf("got %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("no %q frame", want)
		}
	}
}

func TestHubStopClosesSpectators(t *testing.T) {
	h := NewHub(quietLogger())
	go h.Run()

	c := NewClient(h, nil, "spectator")
	h.Register(c, nil)
	h.Stop()

	select {
	case _, ok := <-c.send:
		if ok {
			t.Error("unexpected frame after Stop")
		}
	case <-time.After(time.Second):
		t.Fatal("send not closed after Stop")
	}
}

func TestHubRegisterAfterStopRefused(t *testing.T) {
	h := NewHub(quietLogger())
	go h.Run()
	h.Stop()

	c := NewClient(h, nil, "late")
	if h.Register(c, []byte("hello")) {
		t.Fatal("Register accepted a spectator after Stop")
	}
	if len(c.send) != 0 {
		t.Error("refused spectator got a queued frame")
	}
	if h.ClientCount() != 0 {
		t.Errorf("ClientCount = %d, want 0", h.ClientCount())
	}
}
