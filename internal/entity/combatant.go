// Package entity provides the hero and the enemies that fight in the arena.
package entity

import (
	"github.com/samdwyer/battlearena/internal/anim"
	"github.com/samdwyer/battlearena/internal/combat"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

// ExperiencePerLevel scales the experience needed to reach the next level.
const ExperiencePerLevel = 20

// Combatant is any fighter in the arena.
type Combatant struct {
	Def       *gamedata.ArchetypeDef // Archetype definition (nil for ad hoc combatants)
	Name      string
	Archetype gamedata.Archetype

	HP, MaxHP  int
	Attack     int
	Defense    int
	Level      int
	Experience int
	Stunned    bool

	timer anim.Timer
}

// NewCombatant creates a level 1 combatant from an archetype definition.
func NewCombatant(def *gamedata.ArchetypeDef, name string) *Combatant {
	return &Combatant{
		Def:       def,
		Name:      name,
		Archetype: def.ID,
		HP:        def.Health,
		MaxHP:     def.Health,
		Attack:    def.Attack,
		Defense:   def.Defense,
		Level:     1,
	}
}

// LevelUp raises the level and fully restores health.
func (c *Combatant) LevelUp() {
	c.Level++
	c.MaxHP += 5
	c.HP = c.MaxHP
	c.Attack += 2
	c.Defense++
}

// NextLevelAt returns the experience total that triggers the next level-up.
func (c *Combatant) NextLevelAt() int {
	return c.Level * ExperiencePerLevel
}

// TickAnimation advances the busy timer by frames.
func (c *Combatant) TickAnimation(frames int) bool {
	return c.timer.Tick(frames)
}

// Animation returns a copy of the busy timer for rendering.
func (c *Combatant) Animation() anim.Timer {
	return c.timer
}

// =============================================================================
// Combatant interface implementation
// =============================================================================

// GetName returns the combatant's name.
func (c *Combatant) GetName() string { return c.Name }

// GetArchetype returns the combatant's archetype.
func (c *Combatant) GetArchetype() gamedata.Archetype { return c.Archetype }

// IsAlive returns true if the combatant has health remaining.
func (c *Combatant) IsAlive() bool { return c.HP > 0 }

// GetHP returns current health.
func (c *Combatant) GetHP() int { return c.HP }

// GetMaxHP returns maximum health.
func (c *Combatant) GetMaxHP() int { return c.MaxHP }

// GetAttack returns attack stat.
func (c *Combatant) GetAttack() int { return c.Attack }

// GetDefense returns defense stat.
func (c *Combatant) GetDefense() int { return c.Defense }

// GetLevel returns the current level.
func (c *Combatant) GetLevel() int { return c.Level }

// GetExperience returns accumulated experience.
func (c *Combatant) GetExperience() int { return c.Experience }

// IsStunned reports whether the combatant will miss its next turn.
func (c *Combatant) IsStunned() bool { return c.Stunned }

// SetStunned sets or clears the stun.
func (c *Combatant) SetStunned(stunned bool) { c.Stunned = stunned }

// IsBusy reports whether an animation is still playing.
func (c *Combatant) IsBusy() bool { return c.timer.Busy() }

// StartAnimation begins a busy window.
func (c *Combatant) StartAnimation(kind anim.Kind, frames int) {
	c.timer.Start(kind, frames)
}

// TakeDamage reduces HP and returns actual damage taken. A kill clears any stun.
func (c *Combatant) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > c.HP {
		actual = c.HP
	}
	c.HP -= actual
	if c.HP == 0 {
		c.Stunned = false
	}
	return actual
}

// Heal restores HP and returns actual amount healed. The dead cannot heal.
func (c *Combatant) Heal(amount int) int {
	if amount <= 0 || !c.IsAlive() {
		return 0
	}
	actual := amount
	if c.HP+actual > c.MaxHP {
		actual = c.MaxHP - c.HP
	}
	c.HP += actual
	return actual
}

// ReduceDefense lowers defense, flooring at zero, and returns the actual reduction.
func (c *Combatant) ReduceDefense(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > c.Defense {
		actual = c.Defense
	}
	c.Defense -= actual
	return actual
}

// GainExperience accumulates experience and levels up at most once per call,
// even when the total clears several thresholds.
func (c *Combatant) GainExperience(amount int) bool {
	if amount > 0 {
		c.Experience += amount
	}
	if c.Experience >= c.NextLevelAt() {
		c.LevelUp()
		return true
	}
	return false
}

// Ensure Combatant implements combat.Combatant
var _ combat.Combatant = (*Combatant)(nil)
