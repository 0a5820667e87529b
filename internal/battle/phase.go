// Package battle provides the arena's turn-based battle state machine.
package battle

// Phase represents the current phase of the game.
type Phase int

const (
	// PhaseMenu - waiting for the player to start the battle
	PhaseMenu Phase = iota
	// PhaseBattle - hero and enemies are trading turns
	PhaseBattle
	// PhaseVictory - all enemies defeated
	PhaseVictory
	// PhaseDefeat - the hero has fallen
	PhaseDefeat
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "menu"
	case PhaseBattle:
		return "battle"
	case PhaseVictory:
		return "victory"
	case PhaseDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Finished reports whether the battle has ended.
func (p Phase) Finished() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// Action is a command the player can choose on their turn.
type Action int

const (
	ActionAttack Action = iota
	ActionSpecial
	ActionPotion
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionSpecial:
		return "special"
	case ActionPotion:
		return "potion"
	default:
		return "unknown"
	}
}
