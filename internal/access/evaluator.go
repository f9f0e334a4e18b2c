package access

import "time"

// Evaluator answers "may this caller use tool X" from a snapshot of the
// caller's identity, the global lock flag and the caller's grant rows.
// It holds no external references and is safe to rebuild per request.
type Evaluator struct {
	identity Identity
	locked   bool
	grants   []Grant
	now      func() time.Time
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithClock overrides the time source (useful for expiry tests).
func WithClock(fn func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		if fn != nil {
			e.now = fn
		}
	}
}

// NewEvaluator snapshots the gating inputs. Callers that cannot read the
// lock flag must pass locked=true (fail closed).
func NewEvaluator(identity Identity, locked bool, grants []Grant, opts ...EvaluatorOption) Evaluator {
	e := Evaluator{
		identity: identity,
		locked:   locked,
		grants:   grants,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// CanUse reports whether the caller may use the named tool.
// Admins always pass; open mode (lock off) admits everyone; otherwise an
// unexpired grant for the tool is required. An expired grant never
// resurrects.
func (e Evaluator) CanUse(toolID string) bool {
	if e.identity.Admin {
		return true
	}
	if !e.locked {
		return true
	}
	for _, g := range e.grants {
		if g.ToolID != toolID {
			continue
		}
		return !g.Expired(e.now().UTC())
	}
	return false
}

// HasAny reports whether the caller has access to anything at all, used to
// gate whole sections of the UI. Unlike CanUse it does not filter expired
// grants: one historical grant row is enough. The looser check is
// deliberate and observable behavior.
func (e Evaluator) HasAny() bool {
	if e.identity.Admin {
		return true
	}
	if !e.locked {
		return true
	}
	return len(e.grants) > 0
}

// Snapshot reports the evaluator inputs back to callers that render them.
func (e Evaluator) Snapshot() (Identity, bool, []Grant) {
	return e.identity, e.locked, e.grants
}
