// Package anim models the non-interactive delay between declaring a combat
// action and accepting the next one. Each combatant owns a Timer; while it
// runs the combatant is busy and can neither act nor be acted upon.
package anim

import "github.com/samdwyer/battlearena/internal/gamedata"

// Kind is the animation a combatant is playing.
type Kind int

const (
	KindNone Kind = iota
	KindAttack
	KindHit
	KindHeal
)

// String returns the animation name.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAttack:
		return "attack"
	case KindHit:
		return "hit"
	case KindHeal:
		return "heal"
	default:
		return "unknown"
	}
}

// Durations maps each animation kind to its busy window in frames.
type Durations struct {
	Attack int
	Hit    int
	Heal   int
}

// DurationsFromTiming builds Durations from the timing data file.
func DurationsFromTiming(t gamedata.TimingDef) Durations {
	return Durations{Attack: t.AttackFrames, Hit: t.HitFrames, Heal: t.HealFrames}
}

// For returns the number of frames kind keeps a combatant busy.
func (d Durations) For(kind Kind) int {
	switch kind {
	case KindAttack:
		return d.Attack
	case KindHit:
		return d.Hit
	case KindHeal:
		return d.Heal
	default:
		return 0
	}
}

// Timer is a bounded busy window. The zero value is idle.
type Timer struct {
	kind      Kind
	total     int
	remaining int
}

// Start begins kind for frames frames, replacing any running animation.
func (t *Timer) Start(kind Kind, frames int) {
	if frames <= 0 || kind == KindNone {
		*t = Timer{}
		return
	}
	t.kind = kind
	t.total = frames
	t.remaining = frames
}

// Tick advances the timer by frames and reports whether it finished.
func (t *Timer) Tick(frames int) bool {
	if t.remaining == 0 || frames <= 0 {
		return false
	}
	t.remaining -= frames
	if t.remaining <= 0 {
		*t = Timer{}
		return true
	}
	return false
}

// Busy reports whether an animation is still running.
func (t Timer) Busy() bool { return t.remaining > 0 }

// Kind returns the running animation, or KindNone.
func (t Timer) Kind() Kind { return t.kind }

// Remaining returns frames left before the combatant is idle.
func (t Timer) Remaining() int { return t.remaining }

// Elapsed returns frames played so far.
func (t Timer) Elapsed() int { return t.total - t.remaining }

// Progress returns the completed fraction in [0, 1].
func (t Timer) Progress() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.Elapsed()) / float64(t.total)
}

// Offset returns the horizontal displacement for drawing. An attack lunges
// toward the target (distance may be negative) over the first half and
// returns over the second; a hit shakes right, left, then back to center.
func (t Timer) Offset(distance int) int {
	if !t.Busy() {
		return 0
	}
	elapsed := t.Elapsed()
	switch t.kind {
	case KindAttack:
		half := t.total / 2
		if half == 0 {
			return 0
		}
		if elapsed <= half {
			return distance * elapsed / (2 * half)
		}
		return distance * (t.total - elapsed) / (2 * half)
	case KindHit:
		third := t.total / 3
		if third == 0 {
			return 0
		}
		switch {
		case elapsed < third:
			return 1
		case elapsed < 2*third:
			return -1
		default:
			return 0
		}
	default:
		return 0
	}
}
