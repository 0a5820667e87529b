package entity

import (
	"github.com/samdwyer/battlearena/internal/combat"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

// Hero is the player's combatant. Only the hero carries potions.
type Hero struct {
	*Combatant
	Potions int
}

// NewHero creates the hero from its archetype definition.
func NewHero(def *gamedata.ArchetypeDef, name string, potions int) *Hero {
	return &Hero{
		Combatant: NewCombatant(def, name),
		Potions:   potions,
	}
}

// GetPotions returns the number of potions left.
func (h *Hero) GetPotions() int { return h.Potions }

// ConsumePotion spends one potion and returns false if none are left.
func (h *Hero) ConsumePotion() bool {
	if h.Potions <= 0 {
		return false
	}
	h.Potions--
	return true
}

// Ensure Hero implements combat.PotionBearer
var _ combat.PotionBearer = (*Hero)(nil)
