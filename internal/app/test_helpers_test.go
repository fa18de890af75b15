package app

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/LtsTibby/connectsite/internal/core"
)

// fakeConn captures delivered frames for assertions.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("backpressure")
	}
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {}

func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		if err := json.Unmarshal(fr, &m); err != nil {
			t.Fatalf("decode frame %q: %v", fr, err)
		}
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) reset() {
	f.mu.Lock()
	f.frames = nil
	f.mu.Unlock()
}

func newTestCoordinator() *Coordinator {
	return NewCoordinator(NewRegistry(), NewDirectory(), AllowAll{}, "main")
}

func connect(c *Coordinator, id core.ConnID) *fakeConn {
	fc := &fakeConn{}
	c.Registry.BindConn(id, fc)
	return fc
}

// participantIDs extracts the id set from a joined/participant-update event.
func participantIDs(t *testing.T, ev map[string]any) map[string]bool {
	t.Helper()
	raw, ok := ev["participants"].([]any)
	if !ok {
		t.Fatalf("event %v has no participants array", ev)
	}
	ids := make(map[string]bool, len(raw))
	for _, p := range raw {
		ids[p.(map[string]any)["id"].(string)] = true
	}
	return ids
}

// findParticipant returns the participant entry with the given id.
func findParticipant(t *testing.T, ev map[string]any, id string) map[string]any {
	t.Helper()
	for _, p := range ev["participants"].([]any) {
		m := p.(map[string]any)
		if m["id"] == id {
			return m
		}
	}
	t.Fatalf("participant %s not in event %v", id, ev)
	return nil
}
