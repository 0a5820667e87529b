package battle

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/battlearena/internal/combat"
)

// enemyTurn lets the current enemy act against the hero, then hands the
// turn back to the player. A dead current enemy is replaced by the first
// alive one; a stunned enemy loses its action and the stun.
func (b *Battle) enemyTurn(ctx context.Context) {
	ctx, span := b.tracer.Start(ctx, "battle.enemy_turn")
	defer span.End()

	if !b.CurrentEnemy().IsAlive() {
		next := b.firstAliveEnemy()
		if next < 0 {
			span.SetAttributes(attribute.Bool("no_enemies_left", true))
			b.finish(ctx, PhaseVictory)
			return
		}
		b.activeEnemyIndex = next
	}

	enemy := b.CurrentEnemy()
	var out combat.Outcome
	switch {
	case enemy.IsStunned():
		enemy.SetStunned(false)
		out = combat.Outcome{
			Kind:    combat.ActionStunned,
			Actor:   enemy.Name,
			Success: true,
			Message: enemy.Name + " is stunned and misses their turn!",
		}
	case b.roller.Chance("enemy_basic_attack", EnemyAttackChance):
		out = b.resolver.BasicAttack(enemy, b.hero)
	default:
		out = b.resolver.SpecialAbility(enemy, b.hero)
	}

	b.record(ctx, span, out)
	b.turnCount++
	b.playerTurn = true
}
