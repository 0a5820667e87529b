package battle

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/battlearena/internal/anim"
	"github.com/samdwyer/battlearena/internal/combat"
	"github.com/samdwyer/battlearena/internal/dice"
	"github.com/samdwyer/battlearena/internal/entity"
	"github.com/samdwyer/battlearena/internal/gamedata"
	"github.com/samdwyer/battlearena/internal/telemetry"
)

const (
	// EnemyAttackChance is the percent chance an enemy uses its basic attack
	// instead of its special ability.
	EnemyAttackChance = 70

	openingMessage = "Battle begins! Your turn!"
)

// Options configures a new Battle.
type Options struct {
	Catalog *gamedata.Catalog // Required
	Source  dice.Source       // Required; all randomness is drawn from it
	Logger  *zap.Logger       // Optional
	Tracer  trace.Tracer      // Optional; defaults to the global provider
}

// Battle holds all state for the arena: one hero, an ordered enemy line-up,
// whose turn it is, and what was said last. It is not safe for concurrent
// use; the game loop owns it.
type Battle struct {
	id       uuid.UUID
	catalog  *gamedata.Catalog
	roller   *dice.Roller
	resolver *combat.Resolver
	logger   *zap.Logger
	tracer   trace.Tracer

	phase            Phase
	hero             *entity.Hero
	enemies          []*entity.Combatant
	activeEnemyIndex int
	playerTurn       bool
	enemyDelay       int // Frames left before the enemy acts
	turnCount        int

	lastOutcome  *combat.Outcome
	message      string
	messageTimer int
}

// New creates a battle in the Menu phase with a fresh roster.
func New(opts Options) (*Battle, error) {
	if opts.Catalog == nil {
		return nil, errors.New("battle: catalog is required")
	}
	if opts.Source == nil {
		return nil, errors.New("battle: randomness source is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("battle")
	}

	roller := dice.NewRoller(opts.Source, logger)
	b := &Battle{
		catalog: opts.Catalog,
		roller:  roller,
		resolver: combat.NewResolver(roller, anim.DurationsFromTiming(opts.Catalog.Timing),
			opts.Catalog.Archetypes, logger),
		logger: logger,
		tracer: tracer,
	}
	if err := b.populate(); err != nil {
		return nil, err
	}
	return b, nil
}

// populate (re)creates the hero and enemies and resets turn state.
func (b *Battle) populate() error {
	roster := b.catalog.Roster
	heroDef := b.catalog.Archetypes.GetByID(roster.Hero.Archetype)
	if heroDef == nil {
		return errors.New("battle: hero archetype not found: " + string(roster.Hero.Archetype))
	}

	enemies := make([]*entity.Combatant, 0, len(roster.Enemies))
	for _, e := range roster.Enemies {
		def := b.catalog.Archetypes.GetByID(e.Archetype)
		if def == nil {
			return errors.New("battle: enemy archetype not found: " + string(e.Archetype))
		}
		enemies = append(enemies, entity.NewCombatant(def, e.Name))
	}
	if len(enemies) == 0 {
		return errors.New("battle: roster has no enemies")
	}

	b.id = uuid.New()
	b.hero = entity.NewHero(heroDef, roster.Hero.Name, roster.Potions)
	b.enemies = enemies
	b.activeEnemyIndex = 0
	b.playerTurn = true
	b.enemyDelay = 0
	b.turnCount = 0
	b.lastOutcome = nil
	b.phase = PhaseMenu
	b.setMessage(openingMessage)
	return nil
}

// ID returns the identifier of the current battle.
func (b *Battle) ID() uuid.UUID { return b.id }

// Phase returns the current phase.
func (b *Battle) Phase() Phase { return b.phase }

// IsPlayerTurn reports whether the hero acts next.
func (b *Battle) IsPlayerTurn() bool { return b.playerTurn }

// Hero returns the player's combatant.
func (b *Battle) Hero() *entity.Hero { return b.hero }

// Enemies returns the enemy line-up in roster order.
func (b *Battle) Enemies() []*entity.Combatant { return b.enemies }

// CurrentEnemy returns the enemy the hero is facing.
func (b *Battle) CurrentEnemy() *entity.Combatant { return b.enemies[b.activeEnemyIndex] }

// ActiveEnemyIndex returns the index of the current enemy.
func (b *Battle) ActiveEnemyIndex() int { return b.activeEnemyIndex }

// TurnCount returns the number of resolved turns.
func (b *Battle) TurnCount() int { return b.turnCount }

// Message returns the battle message while it is still on display.
func (b *Battle) Message() string {
	if b.messageTimer <= 0 {
		return ""
	}
	return b.message
}

// LastOutcome returns the most recently recorded outcome, or nil.
func (b *Battle) LastOutcome() *combat.Outcome { return b.lastOutcome }

// AliveEnemyCount returns the number of enemies still alive.
func (b *Battle) AliveEnemyCount() int {
	count := 0
	for _, e := range b.enemies {
		if e.IsAlive() {
			count++
		}
	}
	return count
}

// firstAliveEnemy returns the index of the first alive enemy, or -1.
func (b *Battle) firstAliveEnemy() int {
	for i, e := range b.enemies {
		if e.IsAlive() {
			return i
		}
	}
	return -1
}

// =============================================================================
// Inbound calls
// =============================================================================

// StartBattle leaves the menu and begins the fight. It returns false
// outside the Menu phase.
func (b *Battle) StartBattle(ctx context.Context) bool {
	if b.phase != PhaseMenu {
		return false
	}

	_, span := b.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.String("battle.id", b.id.String()),
		attribute.Int("enemy_count", len(b.enemies)),
		attribute.Int("hero.potions", b.hero.Potions),
	)
	span.End()

	b.transition(PhaseBattle)
	b.setMessage(openingMessage)
	return true
}

// SelectAction performs the player's chosen action against the current
// enemy. Gated actions (wrong phase, enemy turn, animation running) are
// returned without being recorded. Any other outcome is recorded; only a
// successful action ends the player's turn.
func (b *Battle) SelectAction(ctx context.Context, action Action) combat.Outcome {
	if out, ok := b.gate(actionKind(action)); !ok {
		return out
	}

	ctx, span := b.tracer.Start(ctx, "battle.turn")
	defer span.End()

	enemy := b.CurrentEnemy()
	var out combat.Outcome
	switch action {
	case ActionAttack:
		out = b.resolver.BasicAttack(b.hero, enemy)
	case ActionSpecial:
		out = b.resolver.SpecialAbility(b.hero, enemy)
	case ActionPotion:
		out = b.resolver.UsePotion(b.hero)
	default:
		out = combat.Rejected(actionKind(action), b.hero.Name, combat.RejectNoAbility, "Unknown action!")
	}

	b.record(ctx, span, out)
	if out.Success {
		b.turnCount++
		b.endPlayerTurn()
	}
	return out
}

// SelectNextEnemy rotates the target among alive enemies. It does not end
// the player's turn. With no enemy alive the battle is won and the returned
// outcome carries no target.
func (b *Battle) SelectNextEnemy(ctx context.Context) combat.Outcome {
	if out, ok := b.gate(combat.ActionSwitch); !ok {
		return out
	}

	alive := make([]int, 0, len(b.enemies))
	pos := -1
	for i, e := range b.enemies {
		if e.IsAlive() {
			if i == b.activeEnemyIndex {
				pos = len(alive)
			}
			alive = append(alive, i)
		}
	}

	if len(alive) == 0 {
		b.finish(ctx, PhaseVictory)
		out := combat.Outcome{
			Kind:    combat.ActionSwitch,
			Actor:   b.hero.Name,
			Success: true,
			Message: "You have defeated all enemies!",
		}
		b.lastOutcome = &out
		b.setMessage(out.Message)
		return out
	}

	if pos >= 0 {
		b.activeEnemyIndex = alive[(pos+1)%len(alive)]
	} else {
		b.activeEnemyIndex = alive[0]
	}

	enemy := b.CurrentEnemy()
	out := combat.Outcome{
		Kind:    combat.ActionSwitch,
		Actor:   b.hero.Name,
		Target:  enemy.Name,
		Success: true,
		Message: "You are now facing " + enemy.Name + "!",
	}
	b.lastOutcome = &out
	b.setMessage(out.Message)
	b.logger.Debug("target switched",
		zap.String("battle_id", b.id.String()),
		zap.String("enemy", enemy.Name),
		zap.Int("index", b.activeEnemyIndex),
	)
	return out
}

// Reset re-creates the hero and enemies and returns to the menu. It is only
// allowed once the battle has ended.
func (b *Battle) Reset(ctx context.Context) bool {
	if !b.phase.Finished() {
		return false
	}

	previous := b.id
	if err := b.populate(); err != nil {
		// The roster validated at construction; populate cannot fail here.
		b.logger.Error("battle reset failed", zap.Error(err))
		return false
	}
	b.logger.Info("battle reset",
		zap.String("previous_battle_id", previous.String()),
		zap.String("battle_id", b.id.String()),
	)
	return true
}

// Tick advances the battle by frames frames. Each frame advances animation
// timers, checks for victory or defeat, and lets the enemy act once everyone
// is idle.
func (b *Battle) Tick(ctx context.Context, frames int) {
	for i := 0; i < frames; i++ {
		b.step(ctx)
	}
}

func (b *Battle) step(ctx context.Context) {
	b.hero.TickAnimation(1)
	for _, e := range b.enemies {
		e.TickAnimation(1)
	}

	if b.phase != PhaseBattle {
		return
	}
	if b.messageTimer > 0 {
		b.messageTimer--
	}

	if b.checkBattleEnd(ctx) {
		return
	}

	if b.playerTurn || b.hero.IsBusy() || b.CurrentEnemy().IsBusy() {
		return
	}
	if b.enemyDelay > 0 {
		b.enemyDelay--
		return
	}
	b.enemyTurn(ctx)
}

// checkBattleEnd moves to Defeat or Victory when either side is wiped out.
func (b *Battle) checkBattleEnd(ctx context.Context) bool {
	if !b.hero.IsAlive() {
		b.finish(ctx, PhaseDefeat)
		return true
	}
	if b.AliveEnemyCount() == 0 {
		b.finish(ctx, PhaseVictory)
		return true
	}
	return false
}

// gate checks that the player may act right now.
func (b *Battle) gate(kind combat.ActionKind) (combat.Outcome, bool) {
	name := b.hero.Name
	switch {
	case b.phase != PhaseBattle:
		return combat.Rejected(kind, name, combat.RejectWrongPhase, "The battle is not in progress!"), false
	case !b.playerTurn:
		return combat.Rejected(kind, name, combat.RejectNotPlayerTurn, "It is not your turn!"), false
	case b.hero.IsBusy() || b.CurrentEnemy().IsBusy():
		return combat.Rejected(kind, name, combat.RejectBusy, "Wait for the action to finish!"), false
	}
	return combat.Outcome{}, true
}

func (b *Battle) endPlayerTurn() {
	b.playerTurn = false
	b.enemyDelay = b.catalog.Timing.EnemyDelay
}

// record stores the outcome for display and annotates the turn span.
func (b *Battle) record(ctx context.Context, span trace.Span, out combat.Outcome) {
	b.lastOutcome = &out
	b.setMessage(out.Message)

	span.SetAttributes(
		attribute.String("battle.id", b.id.String()),
		attribute.String("actor", out.Actor),
		attribute.String("action", string(out.Kind)),
		attribute.String("target", out.Target),
		attribute.Int("turn", b.turnCount),
	)
	if out.Success {
		if out.Damage > 0 {
			span.SetAttributes(attribute.Int("damage", out.Damage))
		}
		if out.Healing > 0 {
			span.SetAttributes(attribute.Int("healing", out.Healing))
		}
		if out.Stunned {
			span.SetAttributes(attribute.Bool("stunned", true))
		}
		if out.Killed {
			span.SetAttributes(attribute.Bool("killed", true))
		}
	} else {
		span.SetAttributes(
			attribute.Bool("failed", true),
			attribute.String("reason", string(out.Reason)),
		)
	}

	b.logger.Debug("turn recorded",
		zap.String("battle_id", b.id.String()),
		zap.String("actor", out.Actor),
		zap.String("action", string(out.Kind)),
		zap.Bool("success", out.Success),
		zap.String("reason", string(out.Reason)),
		zap.String("message", out.Message),
	)
}

func (b *Battle) setMessage(msg string) {
	b.message = msg
	b.messageTimer = b.catalog.Timing.MessageFrames
}

// transition changes phase and logs it.
func (b *Battle) transition(to Phase) {
	from := b.phase
	b.phase = to
	b.logger.Info("battle phase changed",
		zap.String("battle_id", b.id.String()),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

// finish ends the battle with a victory or defeat.
func (b *Battle) finish(ctx context.Context, outcome Phase) {
	if b.phase != PhaseBattle {
		return
	}
	_, span := b.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("battle.id", b.id.String()),
		attribute.String("outcome", outcome.String()),
		attribute.Int("turns_taken", b.turnCount),
		attribute.Int("hero_hp_remaining", b.hero.HP),
		attribute.Int("hero_level", b.hero.Level),
		attribute.Int("enemies_defeated", len(b.enemies)-b.AliveEnemyCount()),
	)
	span.End()

	b.transition(outcome)
}

func actionKind(a Action) combat.ActionKind {
	switch a {
	case ActionAttack:
		return combat.ActionAttack
	case ActionSpecial:
		return combat.ActionSpecial
	case ActionPotion:
		return combat.ActionPotion
	default:
		return combat.ActionKind(a.String())
	}
}
