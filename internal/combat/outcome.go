package combat

// ActionKind identifies what a combat action was.
type ActionKind string

const (
	ActionAttack  ActionKind = "attack"
	ActionSpecial ActionKind = "special"
	ActionHeal    ActionKind = "heal"
	ActionPotion  ActionKind = "potion"
	ActionStunned ActionKind = "stunned" // Turn skipped while stunned
	ActionSwitch  ActionKind = "switch"  // Player changed target
)

// Rejection explains why an action was refused. An empty Rejection means
// the action was carried out.
type Rejection string

const (
	RejectNone          Rejection = ""
	RejectActorDead     Rejection = "actor_dead"
	RejectTargetDead    Rejection = "target_dead"
	RejectNoPotions     Rejection = "no_potions"
	RejectFullHealth    Rejection = "full_health"
	RejectNotPlayerTurn Rejection = "not_player_turn"
	RejectBusy          Rejection = "busy"
	RejectWrongPhase    Rejection = "wrong_phase"
	RejectNoAbility     Rejection = "no_ability"
)

// Outcome is the result of resolving one action. It is pure data.
type Outcome struct {
	Kind    ActionKind
	Actor   string
	Target  string
	Ability string // Special ability display name, if any

	Success bool
	Reason  Rejection

	Damage         int  // Total damage dealt to the target
	Hits           int  // Number of strikes (Goblin frenzy)
	Healing        int  // Health restored to the actor
	Stunned        bool // Target was stunned
	DefenseReduced int  // Target defense lost
	Killed         bool // Target died from this action
	Experience     int  // Experience granted to the actor
	LeveledUp      bool // Actor gained a level

	Message string // Human-readable description
}

// Rejected returns a non-mutating outcome for an illegal action.
func Rejected(kind ActionKind, actor string, reason Rejection, message string) Outcome {
	return Outcome{
		Kind:    kind,
		Actor:   actor,
		Success: false,
		Reason:  reason,
		Message: message,
	}
}
