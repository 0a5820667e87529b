package battle

import (
	"github.com/samdwyer/battlearena/internal/anim"
	"github.com/samdwyer/battlearena/internal/combat"
	"github.com/samdwyer/battlearena/internal/entity"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

const (
	TurnPlayer = "Player's Turn"
	TurnEnemy  = "Enemy's Turn"
)

// CombatantView is a read-only snapshot of one combatant for rendering.
type CombatantView struct {
	Name      string
	Archetype gamedata.Archetype
	Ability   string
	Glyph     rune
	Color     string // Hex color code

	HP          int
	MaxHP       int
	Attack      int
	Defense     int
	Level       int
	Experience  int
	NextLevelAt int
	Potions     int // Hero only

	Alive     bool
	Stunned   bool
	Animation anim.Timer
}

// FinalStats summarizes a finished battle.
type FinalStats struct {
	Level            int
	MonstersDefeated int
	PotionsRemaining int
}

// View is a snapshot of everything the presentation layer draws.
type View struct {
	BattleID      string
	Phase         Phase
	PlayerTurn    bool
	TurnIndicator string
	Turn          int

	Hero        CombatantView
	Enemy       CombatantView // Current enemy
	Enemies     []CombatantView
	ActiveEnemy int

	Message     string // Empty once its display time runs out
	LastOutcome *combat.Outcome
	Stats       FinalStats
}

// View returns a snapshot of the battle.
func (b *Battle) View() View {
	enemies := make([]CombatantView, len(b.enemies))
	for i, e := range b.enemies {
		enemies[i] = snapshot(e)
	}

	hero := snapshot(b.hero.Combatant)
	hero.Potions = b.hero.Potions

	indicator := TurnEnemy
	if b.playerTurn {
		indicator = TurnPlayer
	}

	v := View{
		BattleID:      b.id.String(),
		Phase:         b.phase,
		PlayerTurn:    b.playerTurn,
		TurnIndicator: indicator,
		Turn:          b.turnCount,
		Hero:          hero,
		Enemy:         enemies[b.activeEnemyIndex],
		Enemies:       enemies,
		ActiveEnemy:   b.activeEnemyIndex,
		Message:       b.Message(),
		Stats:         b.FinalStats(),
	}
	if b.lastOutcome != nil {
		out := *b.lastOutcome
		v.LastOutcome = &out
	}
	return v
}

// FinalStats returns the hero's level, the number of defeated enemies and
// the potions left.
func (b *Battle) FinalStats() FinalStats {
	return FinalStats{
		Level:            b.hero.Level,
		MonstersDefeated: len(b.enemies) - b.AliveEnemyCount(),
		PotionsRemaining: b.hero.Potions,
	}
}

func snapshot(c *entity.Combatant) CombatantView {
	v := CombatantView{
		Name:        c.Name,
		Archetype:   c.Archetype,
		Glyph:       '?',
		HP:          c.HP,
		MaxHP:       c.MaxHP,
		Attack:      c.Attack,
		Defense:     c.Defense,
		Level:       c.Level,
		Experience:  c.Experience,
		NextLevelAt: c.NextLevelAt(),
		Alive:       c.IsAlive(),
		Stunned:     c.Stunned,
		Animation:   c.Animation(),
	}
	if c.Def != nil {
		v.Ability = c.Def.Special
		v.Glyph = c.Def.GlyphRune()
		v.Color = c.Def.Color
	}
	return v
}
