package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/battlearena/internal/anim"
	"github.com/samdwyer/battlearena/internal/battle"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

const (
	Title = "Fantasy Battle Arena"

	heroColumn     = 12
	enemyColumn    = 56
	firstEnemyRow  = 3
	enemyRowStride = 5
	heroRow        = 8
	statsRow       = 18
	messageRow     = 22
	actionRow      = 24

	lungeDistance  = 4
	healthBarWidth = 10
)

var (
	styleDefault = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleTitle   = tcell.StyleDefault.Foreground(tcell.ColorGold).Bold(true)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStunned = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleSparkle = tcell.StyleDefault.Foreground(tcell.ColorLightGreen).Bold(true)
	styleKey     = tcell.StyleDefault.Foreground(tcell.ColorLightBlue).Bold(true)
)

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws the screen for the view's phase.
func (r *Renderer) Render(v battle.View) {
	r.screen.Clear()

	switch v.Phase {
	case battle.PhaseMenu:
		r.renderMenu(v)
	case battle.PhaseBattle:
		r.renderBattle(v)
	case battle.PhaseVictory:
		r.renderVictory(v)
	case battle.PhaseDefeat:
		r.renderDefeat(v)
	}

	r.screen.Show()
}

func (r *Renderer) renderMenu(v battle.View) {
	r.screen.DrawCentered(4, Title, styleTitle)
	r.screen.DrawCentered(6, "Face off against fearsome fantasy creatures!", styleDefault)

	row := 9
	r.drawRosterLine(row, v.Hero)
	for _, e := range v.Enemies {
		row++
		r.drawRosterLine(row, e)
	}

	r.screen.DrawCentered(row+3, "[Enter] Start Battle", styleKey)
	r.screen.DrawCentered(row+4, "[Q] Quit", styleDim)
}

func (r *Renderer) drawRosterLine(y int, c battle.CombatantView) {
	x := r.screen.DrawText(20, y, string(c.Glyph), glyphStyle(c))
	line := fmt.Sprintf(" %-9s %-7s HP %-3d ATK %-2d DEF %-2d %s",
		c.Name, c.Archetype.String(), c.MaxHP, c.Attack, c.Defense, c.Ability)
	r.screen.DrawText(x, y, line, styleDefault)
}

func (r *Renderer) renderBattle(v battle.View) {
	r.screen.DrawText(1, 0, Title, styleTitle)
	turnStyle := styleEnemy
	if v.PlayerTurn {
		turnStyle = stylePlayer
	}
	width, _ := r.screen.Size()
	r.screen.DrawText(width-len(v.TurnIndicator)-1, 0, v.TurnIndicator, turnStyle)

	r.drawCombatant(heroColumn, heroRow, v.Hero, 1)
	for i, e := range v.Enemies {
		y := firstEnemyRow + i*enemyRowStride
		if i == v.ActiveEnemy && e.Alive {
			r.screen.DrawText(enemyColumn-3, y+1, ">", styleKey)
		}
		r.drawCombatant(enemyColumn, y, e, -1)
	}

	r.drawStats(v.Hero)

	if v.Message != "" {
		r.screen.DrawCentered(messageRow, v.Message, styleDefault)
	}
	r.drawActions(v)
}

// drawCombatant draws a name plate, glyph, health bar and status. facing is
// the direction the combatant lunges when attacking.
func (r *Renderer) drawCombatant(x, y int, c battle.CombatantView, facing int) {
	nameStyle := styleDefault
	if !c.Alive {
		nameStyle = styleDim
	}
	r.screen.DrawText(x, y, fmt.Sprintf("%s (Lvl %d)", c.Name, c.Level), nameStyle)

	// Dead combatants lie still.
	gx := x
	if c.Alive {
		gx += SpriteOffset(c.Animation, facing)
		r.screen.SetContent(gx, y+1, c.Glyph, glyphStyle(c))
	} else {
		r.screen.SetContent(gx, y+1, 'x', styleDim)
	}
	if sparkle, ok := sparkleRune(c.Animation); ok {
		r.screen.SetContent(gx-1, y+1, sparkle, styleSparkle)
		r.screen.SetContent(gx+1, y+1, sparkle, styleSparkle)
	}

	bar, barStyle := HealthBar(c.HP, c.MaxHP)
	next := r.screen.DrawText(x, y+2, bar, barStyle)
	r.screen.DrawText(next+1, y+2, fmt.Sprintf("%d/%d", c.HP, c.MaxHP), styleDefault)

	if c.Stunned && c.Alive {
		r.screen.DrawText(x, y+3, "STUNNED", styleStunned)
	}
}

func (r *Renderer) drawStats(hero battle.CombatantView) {
	lines := []string{
		fmt.Sprintf("Level: %d", hero.Level),
		fmt.Sprintf("EXP: %d/%d", hero.Experience, hero.NextLevelAt),
		fmt.Sprintf("Attack: %d", hero.Attack),
		fmt.Sprintf("Defense: %d", hero.Defense),
	}
	for i, line := range lines {
		r.screen.DrawText(2, statsRow+i, line, styleDefault)
	}
}

func (r *Renderer) drawActions(v battle.View) {
	ready := v.PlayerTurn && !v.Hero.Animation.Busy() && !v.Enemy.Animation.Busy()
	keyStyle, textStyle := styleKey, styleDefault
	if !ready {
		keyStyle, textStyle = styleDim, styleDim
	}

	actions := []struct{ key, label string }{
		{"A", "Attack"},
		{"S", "Special"},
		{"P", fmt.Sprintf("Potion (%d)", v.Hero.Potions)},
		{"N", "Next Enemy"},
	}
	x := 2
	for _, a := range actions {
		x = r.screen.DrawText(x, actionRow, "["+a.key+"]", keyStyle)
		x = r.screen.DrawText(x+1, actionRow, a.label, textStyle)
		x += 3
	}
	r.screen.DrawText(x, actionRow, "[Q] Quit", styleDim)
}

func (r *Renderer) renderVictory(v battle.View) {
	r.screen.DrawCentered(5, "Victory!", styleTitle)
	r.screen.DrawCentered(7, "You have defeated all enemies!", styleDefault)

	stats := []string{
		fmt.Sprintf("Final Level: %d", v.Stats.Level),
		fmt.Sprintf("Monsters Defeated: %d", v.Stats.MonstersDefeated),
		fmt.Sprintf("Potions Remaining: %d", v.Stats.PotionsRemaining),
	}
	for i, s := range stats {
		r.screen.DrawCentered(10+i, s, styleDefault)
	}

	r.screen.DrawCentered(15, "[Enter] Play Again", styleKey)
	r.screen.DrawCentered(16, "[Q] Quit", styleDim)
}

func (r *Renderer) renderDefeat(v battle.View) {
	r.screen.DrawCentered(5, "Game Over", styleEnemy)
	r.screen.DrawCentered(7, "You have been defeated!", styleDefault)
	r.screen.DrawCentered(9, fmt.Sprintf("Monsters Defeated: %d", v.Stats.MonstersDefeated), styleDim)

	r.screen.DrawCentered(12, "[Enter] Play Again", styleKey)
	r.screen.DrawCentered(13, "[Q] Quit", styleDim)
}

// HealthBar returns a fixed-width bar for hp out of maxHP and its style.
func HealthBar(hp, maxHP int) (string, tcell.Style) {
	filled := 0
	if maxHP > 0 {
		filled = min(healthBarWidth, max(0, hp)*healthBarWidth/maxHP)
	}
	if hp > 0 && filled == 0 {
		filled = 1
	}
	bar := "[" + strings.Repeat("#", filled) + strings.Repeat("-", healthBarWidth-filled) + "]"

	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	switch {
	case maxHP <= 0 || hp*4 <= maxHP:
		style = tcell.StyleDefault.Foreground(tcell.ColorRed)
	case hp*2 <= maxHP:
		style = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	}
	return bar, style
}

// SpriteOffset returns the horizontal displacement of a sprite for its
// current animation.
func SpriteOffset(t anim.Timer, facing int) int {
	return t.Offset(lungeDistance) * facing
}

func sparkleRune(t anim.Timer) (rune, bool) {
	if !t.Busy() || t.Kind() != anim.KindHeal {
		return 0, false
	}
	if t.Elapsed()%4 < 2 {
		return '+', true
	}
	return '*', true
}

func glyphStyle(c battle.CombatantView) tcell.Style {
	color, err := gamedata.ParseHexColor(c.Color)
	if err != nil {
		color = tcell.ColorGray
	}
	return tcell.StyleDefault.Foreground(color).Bold(true)
}
