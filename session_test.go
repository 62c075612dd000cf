package breakfilter

import (
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-breakfilter/pkg/events"
)

func TestSessionListenerMintsFreshIDs(t *testing.T) {
	listener := NewSessionListener(New())

	if listener.SessionID() != "" {
		t.Fatalf("expected empty session id before first start")
	}

	listener.OnSessionChanged(true)
	first := listener.SessionID()
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected valid uuid session id, got %q: %v", first, err)
	}
	if !listener.Active() {
		t.Fatalf("listener should report active after start")
	}

	listener.OnSessionChanged(false)
	if listener.SessionID() != first {
		t.Fatalf("stop should keep the last session id")
	}

	listener.OnSessionChanged(true)
	second := listener.SessionID()
	if second == first {
		t.Fatalf("each start should mint a fresh session id")
	}
}

func TestSessionListenerIsIdempotent(t *testing.T) {
	counting := &countingCompiler{inner: NewExprCompiler()}
	evaluator := New(WithCompiler(counting))
	listener := NewSessionListener(evaluator)

	listener.OnSessionChanged(true)
	id := listener.SessionID()
	listener.OnSessionChanged(true)
	if listener.SessionID() != id {
		t.Fatalf("repeated start signals should not rotate the session id")
	}

	if _, err := evaluator.Evaluate("ProcessId == 4", testVariables()); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	listener.OnSessionChanged(true)
	if _, err := evaluator.Evaluate("ProcessId == 4", testVariables()); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if compiles, _ := counting.counts(); compiles != 1 {
		t.Fatalf("repeated signals must keep the cache, got %d compilations", compiles)
	}
}

func TestSessionListenerForwardsRotation(t *testing.T) {
	counting := &countingCompiler{inner: NewExprCompiler()}
	evaluator := New(WithCompiler(counting))
	listener := NewSessionListener(evaluator)

	listener.OnSessionChanged(true)
	if _, err := evaluator.Evaluate("ProcessId == 4", testVariables()); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	listener.OnSessionChanged(false)
	listener.OnSessionChanged(true)
	if _, err := evaluator.Evaluate("ProcessId == 4", testVariables()); err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if compiles, _ := counting.counts(); compiles != 1 {
		t.Fatalf("restart through the listener should repossess the cache, got %d", compiles)
	}
}

func TestSessionListenerEmitsEvents(t *testing.T) {
	capture := &events.CaptureHook{}
	emitter := events.NewEmitter(events.Hooks{capture}, events.Config{Enabled: true})
	listener := NewSessionListener(New(), SessionWithEmitter(emitter))

	listener.OnSessionChanged(true)
	listener.OnSessionChanged(false)

	captured := capture.Captured()
	if len(captured) != 2 {
		t.Fatalf("expected 2 events, got %d", len(captured))
	}
	if captured[0].Kind != events.KindSessionStarted {
		t.Fatalf("expected session.started first, got %q", captured[0].Kind)
	}
	if captured[1].Kind != events.KindSessionStopped {
		t.Fatalf("expected session.stopped second, got %q", captured[1].Kind)
	}
	if captured[0].SessionID == "" || captured[0].SessionID != captured[1].SessionID {
		t.Fatalf("both events should carry the same session id: %+v", captured)
	}
	if captured[0].Channel != "debugger" {
		t.Fatalf("expected default channel, got %q", captured[0].Channel)
	}
}
