package breakfilter

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-breakfilter/pkg/events"
)

// SessionListenerOption configures a SessionListener.
type SessionListenerOption func(*SessionListener)

// SessionWithEmitter publishes session transitions through emitter.
func SessionWithEmitter(emitter *events.Emitter) SessionListenerOption {
	return func(l *SessionListener) {
		l.emitter = emitter
	}
}

// SessionListener bridges the debugger's global start/stop signal to the
// evaluator's cache rotation. The composition root constructs exactly one
// and subscribes it to the session lifecycle; there is no implicit registry.
type SessionListener struct {
	mu        sync.Mutex
	evaluator *FilterEvaluator
	emitter   *events.Emitter
	active    bool
	sessionID string
}

// NewSessionListener wires listener and evaluator together.
func NewSessionListener(evaluator *FilterEvaluator, opts ...SessionListenerOption) *SessionListener {
	l := &SessionListener{evaluator: evaluator}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// OnSessionChanged receives the "is a debug session active" signal. Each
// start mints a fresh session ID; repeated signals with the same state are
// no-ops. Safe to call from a different goroutine than the one evaluating.
func (l *SessionListener) OnSessionChanged(active bool) {
	l.mu.Lock()
	if active == l.active {
		l.mu.Unlock()
		return
	}
	l.active = active
	if active {
		l.sessionID = uuid.NewString()
	}
	sessionID := l.sessionID
	l.mu.Unlock()

	if l.evaluator != nil {
		l.evaluator.OnDebuggingSessionChanged(active)
	}
	if l.emitter == nil {
		return
	}
	kind := events.KindSessionStopped
	if active {
		kind = events.KindSessionStarted
	}
	// Hook failures are telemetry-only; nothing upstream can act on them.
	_ = l.emitter.Emit(context.Background(), events.Event{
		Kind:      kind,
		SessionID: sessionID,
	})
}

// SessionID returns the identifier of the current session, or of the most
// recently stopped one. Empty before the first start.
func (l *SessionListener) SessionID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sessionID
}

// Active reports whether a debug session is currently running.
func (l *SessionListener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}
