// Package combat provides the turn-based combat resolution engine.
package combat

import (
	"github.com/samdwyer/battlearena/internal/anim"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

// Combatant is the interface for any entity that can participate in combat.
// Both the hero and enemies implement this interface.
type Combatant interface {
	// Identity
	GetName() string
	GetArchetype() gamedata.Archetype
	IsAlive() bool

	// Stats
	GetHP() int
	GetMaxHP() int
	GetAttack() int
	GetDefense() int
	GetLevel() int
	GetExperience() int

	// Mutations
	TakeDamage(amount int) int    // Returns actual damage taken
	Heal(amount int) int          // Returns actual amount healed
	ReduceDefense(amount int) int // Returns actual reduction (defense floors at 0)
	GainExperience(amount int) bool

	// Status
	IsStunned() bool
	SetStunned(stunned bool)

	// Animation gate
	IsBusy() bool
	StartAnimation(kind anim.Kind, frames int)
}

// PotionBearer is a combatant that carries healing potions.
type PotionBearer interface {
	Combatant
	GetPotions() int
	ConsumePotion() bool // Returns false if none are left
}
