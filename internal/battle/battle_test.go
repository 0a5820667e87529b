package battle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/samdwyer/battlearena/internal/combat"
	"github.com/samdwyer/battlearena/internal/dice"
	"github.com/samdwyer/battlearena/internal/gamedata"
)

// Timing from timing.yaml.
const (
	attackFrames = 20
	healFrames   = 15
	enemyDelay   = 30
	messageTime  = 180
)

func newTestBattle(t *testing.T, rolls ...int) (*Battle, *dice.ScriptedSource) {
	t.Helper()
	src := dice.NewScriptedSource(rolls...)
	b, err := New(Options{Catalog: gamedata.MustLoadCatalog(), Source: src})
	require.NoError(t, err)
	return b, src
}

func startedBattle(t *testing.T, rolls ...int) (*Battle, *dice.ScriptedSource) {
	t.Helper()
	b, src := newTestBattle(t, rolls...)
	require.True(t, b.StartBattle(context.Background()))
	return b, src
}

func TestNew_StartsInMenu(t *testing.T) {
	b, _ := newTestBattle(t)

	assert.Equal(t, PhaseMenu, b.Phase())
	assert.True(t, b.IsPlayerTurn())
	assert.Equal(t, 0, b.ActiveEnemyIndex())
	assert.Equal(t, "Battle begins! Your turn!", b.Message())
	assert.Nil(t, b.LastOutcome())
	assert.Equal(t, "Hero", b.Hero().Name)
	assert.Equal(t, 3, b.Hero().Potions)

	names := make([]string, 0, len(b.Enemies()))
	for _, e := range b.Enemies() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Gobbly", "Grog", "Elindril"}, names)
}

func TestNew_RequiresCatalogAndSource(t *testing.T) {
	_, err := New(Options{Source: dice.NewScriptedSource()})
	assert.Error(t, err)

	_, err = New(Options{Catalog: gamedata.MustLoadCatalog()})
	assert.Error(t, err)
}

func TestNew_UnknownArchetype(t *testing.T) {
	catalog := gamedata.MustLoadCatalog()
	broken := *catalog
	broken.Roster = &gamedata.RosterDef{
		Hero:    catalog.Roster.Hero,
		Potions: 1,
		Enemies: []gamedata.RosterEntry{{Name: "Smaug", Archetype: "dragon"}},
	}

	_, err := New(Options{Catalog: &broken, Source: dice.NewScriptedSource()})
	assert.ErrorContains(t, err, "dragon")
}

func TestStartBattle_OnlyFromMenu(t *testing.T) {
	b, _ := newTestBattle(t)
	ctx := context.Background()

	assert.True(t, b.StartBattle(ctx))
	assert.Equal(t, PhaseBattle, b.Phase())
	assert.False(t, b.StartBattle(ctx))
}

func TestSelectAction_RejectedOutsideBattle(t *testing.T) {
	b, src := newTestBattle(t)

	out := b.SelectAction(context.Background(), ActionAttack)

	assert.False(t, out.Success)
	assert.Equal(t, combat.RejectWrongPhase, out.Reason)
	assert.Nil(t, b.LastOutcome(), "gated actions are not recorded")
	assert.Equal(t, 0, src.Remaining())
	assert.Equal(t, 15, b.CurrentEnemy().HP)
}

func TestPlayerAttack_EndsTurn(t *testing.T) {
	b, src := startedBattle(t, 2)

	out := b.SelectAction(context.Background(), ActionAttack)

	require.True(t, out.Success)
	assert.Equal(t, 7, out.Damage)
	assert.Equal(t, 8, b.CurrentEnemy().HP)
	assert.False(t, b.IsPlayerTurn())
	assert.Equal(t, 1, b.TurnCount())
	assert.Equal(t, "Hero attacked Gobbly for 7 damage!", b.Message())
	assert.True(t, b.Hero().IsBusy())
	assert.True(t, b.CurrentEnemy().IsBusy())
	assert.Equal(t, 0, src.Remaining())
}

func TestSelectAction_RejectedOnEnemyTurn(t *testing.T) {
	b, _ := startedBattle(t, 2)
	ctx := context.Background()
	b.SelectAction(ctx, ActionAttack)
	b.Tick(ctx, attackFrames)

	out := b.SelectAction(ctx, ActionSpecial)

	assert.Equal(t, combat.RejectNotPlayerTurn, out.Reason)
	assert.Equal(t, "Hero attacked Gobbly for 7 damage!", b.Message())
}

func TestEnemyTurn_WaitsForAnimationAndDelay(t *testing.T) {
	// Hero jitter 0; goblin chooses basic attack (0 < 70) with jitter 0.
	b, src := startedBattle(t, 2, 0, 2)
	ctx := context.Background()
	b.SelectAction(ctx, ActionAttack)

	b.Tick(ctx, attackFrames+enemyDelay-1)
	assert.False(t, b.IsPlayerTurn())
	assert.Equal(t, 25, b.Hero().HP)
	assert.Equal(t, 2, src.Remaining())

	b.Tick(ctx, 1)
	assert.True(t, b.IsPlayerTurn())
	assert.Equal(t, 22, b.Hero().HP)
	assert.Equal(t, "Gobbly attacked Hero for 3 damage!", b.Message())
	assert.Equal(t, 2, b.TurnCount())
	assert.Equal(t, 0, src.Remaining())
}

func TestSelectAction_RejectedWhileBusy(t *testing.T) {
	b, _ := startedBattle(t, 2, 0, 2)
	ctx := context.Background()
	b.SelectAction(ctx, ActionAttack)
	b.Tick(ctx, attackFrames+enemyDelay)
	require.True(t, b.IsPlayerTurn())
	require.True(t, b.Hero().IsBusy())

	out := b.SelectAction(ctx, ActionAttack)
	assert.Equal(t, combat.RejectBusy, out.Reason)
	assert.Equal(t, combat.RejectBusy, b.SelectNextEnemy(ctx).Reason)
	assert.Equal(t, 0, b.ActiveEnemyIndex())

	// Enemy lunge lasts the full attack animation.
	b.Tick(ctx, attackFrames)
	assert.False(t, b.Hero().IsBusy())
	assert.False(t, b.CurrentEnemy().IsBusy())
}

func TestEnemyTurn_Special(t *testing.T) {
	// Hero jitter 0; goblin rolls 70 (special) then 2 frenzy hits.
	b, _ := startedBattle(t, 2, 70, 0)
	ctx := context.Background()
	b.SelectAction(ctx, ActionAttack)
	b.Tick(ctx, attackFrames+enemyDelay)

	out := b.LastOutcome()
	require.NotNil(t, out)
	assert.Equal(t, combat.ActionSpecial, out.Kind)
	assert.Equal(t, "Frenzy", out.Ability)
	assert.Equal(t, 2, out.Hits)
	assert.Equal(t, 2, out.Damage)
	assert.Equal(t, 23, b.Hero().HP)
}

func TestEnemyTurn_StunnedEnemySkips(t *testing.T) {
	// Critical Strike on Grog, stun roll 0 succeeds.
	b, src := startedBattle(t, 0)
	ctx := context.Background()
	b.SelectNextEnemy(ctx)
	require.Equal(t, "Grog", b.CurrentEnemy().Name)

	out := b.SelectAction(ctx, ActionSpecial)
	require.True(t, out.Success)
	assert.True(t, out.Stunned)
	assert.Equal(t, 16, b.CurrentEnemy().HP)

	b.Tick(ctx, attackFrames+enemyDelay)

	assert.True(t, b.IsPlayerTurn())
	assert.False(t, b.CurrentEnemy().IsStunned())
	assert.Equal(t, "Grog is stunned and misses their turn!", b.Message())
	assert.Equal(t, combat.ActionStunned, b.LastOutcome().Kind)
	assert.Equal(t, 25, b.Hero().HP)
	assert.Equal(t, 0, src.Remaining())
}

func TestStunnedEnemyKilled_ClearsStun(t *testing.T) {
	// Critical Strike stuns Grog; a later basic attack with jitter 0 kills it.
	b, _ := startedBattle(t, 0, 2)
	ctx := context.Background()
	b.SelectNextEnemy(ctx)
	require.True(t, b.SelectAction(ctx, ActionSpecial).Stunned)

	b.Tick(ctx, attackFrames+enemyDelay)
	require.True(t, b.IsPlayerTurn())
	b.Tick(ctx, attackFrames)

	grog := b.CurrentEnemy()
	grog.Stunned = true
	grog.HP = 1
	out := b.SelectAction(ctx, ActionAttack)

	require.True(t, out.Killed)
	assert.False(t, grog.IsStunned())
	for _, e := range b.View().Enemies {
		if !e.Alive {
			assert.False(t, e.Stunned, "%s is dead and stunned", e.Name)
		}
	}
}

func TestEnemyTurn_AdvancesPastDeadEnemy(t *testing.T) {
	// Hero kills Gobbly; Grog steps up and attacks with jitter 0.
	b, _ := startedBattle(t, 2, 0, 2)
	ctx := context.Background()
	b.CurrentEnemy().HP = 1

	out := b.SelectAction(ctx, ActionAttack)
	require.True(t, out.Killed)
	assert.Equal(t, 10, b.Hero().Experience)

	b.Tick(ctx, attackFrames+enemyDelay)

	assert.Equal(t, PhaseBattle, b.Phase())
	assert.Equal(t, 1, b.ActiveEnemyIndex())
	assert.Equal(t, "Grog attacked Hero for 5 damage!", b.Message())
	assert.Equal(t, 20, b.Hero().HP)
}

func TestAttackDeadCurrentEnemy_KeepsTurn(t *testing.T) {
	b, _ := startedBattle(t)
	b.CurrentEnemy().HP = 0

	out := b.SelectAction(context.Background(), ActionAttack)

	assert.Equal(t, combat.RejectTargetDead, out.Reason)
	assert.True(t, b.IsPlayerTurn())
	assert.Equal(t, "Gobbly is already dead!", b.Message())
	assert.Equal(t, 0, b.TurnCount())
}

func TestPotion(t *testing.T) {
	t.Run("no potions", func(t *testing.T) {
		b, _ := startedBattle(t)
		b.Hero().Potions = 0
		b.Hero().HP = 10

		out := b.SelectAction(context.Background(), ActionPotion)

		assert.Equal(t, combat.RejectNoPotions, out.Reason)
		assert.Equal(t, "You have no potions left!", b.Message())
		assert.Equal(t, 10, b.Hero().HP)
		assert.True(t, b.IsPlayerTurn())
	})

	t.Run("full health", func(t *testing.T) {
		b, _ := startedBattle(t)

		out := b.SelectAction(context.Background(), ActionPotion)

		assert.Equal(t, combat.RejectFullHealth, out.Reason)
		assert.Equal(t, 3, b.Hero().Potions)
		assert.True(t, b.IsPlayerTurn())
	})

	t.Run("heals and ends turn", func(t *testing.T) {
		b, _ := startedBattle(t)
		b.Hero().HP = 10

		out := b.SelectAction(context.Background(), ActionPotion)

		require.True(t, out.Success)
		assert.Equal(t, 12, out.Healing)
		assert.Equal(t, 22, b.Hero().HP)
		assert.Equal(t, 2, b.Hero().Potions)
		assert.False(t, b.IsPlayerTurn())
		assert.Equal(t, "You used a potion! Hero was healed for 12 health points! Potions left: 2", b.Message())
	})

	t.Run("enemy waits for heal animation", func(t *testing.T) {
		b, src := startedBattle(t, 0, 2)
		ctx := context.Background()
		b.Hero().HP = 10
		b.SelectAction(ctx, ActionPotion)

		b.Tick(ctx, healFrames+enemyDelay-1)
		assert.Equal(t, 2, src.Remaining())
		b.Tick(ctx, 1)
		assert.Equal(t, 0, src.Remaining())
		assert.True(t, b.IsPlayerTurn())
	})
}

func TestSelectNextEnemy(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates with wrap", func(t *testing.T) {
		b, _ := startedBattle(t)
		var order []int
		for i := 0; i < 4; i++ {
			out := b.SelectNextEnemy(ctx)
			require.True(t, out.Success)
			order = append(order, b.ActiveEnemyIndex())
		}
		assert.Equal(t, []int{1, 2, 0, 1}, order)
		assert.True(t, b.IsPlayerTurn(), "switching does not end the turn")
		assert.Equal(t, "You are now facing Grog!", b.Message())
	})

	t.Run("skips dead enemies", func(t *testing.T) {
		b, _ := startedBattle(t)
		b.Enemies()[1].HP = 0

		b.SelectNextEnemy(ctx)
		assert.Equal(t, 2, b.ActiveEnemyIndex())
		b.SelectNextEnemy(ctx)
		assert.Equal(t, 0, b.ActiveEnemyIndex())
	})

	t.Run("dead current picks first alive", func(t *testing.T) {
		b, _ := startedBattle(t)
		b.Enemies()[0].HP = 0

		b.SelectNextEnemy(ctx)
		assert.Equal(t, 1, b.ActiveEnemyIndex())
	})

	t.Run("none alive is victory", func(t *testing.T) {
		b, _ := startedBattle(t)
		for _, e := range b.Enemies() {
			e.HP = 0
		}

		out := b.SelectNextEnemy(ctx)

		assert.True(t, out.Success)
		assert.Equal(t, combat.ActionSwitch, out.Kind)
		assert.Empty(t, out.Target)
		assert.Equal(t, "You have defeated all enemies!", out.Message)
		assert.Equal(t, PhaseVictory, b.Phase())
		assert.Equal(t, &out, b.LastOutcome())
	})
}

func TestVictory_OnTick(t *testing.T) {
	b, _ := startedBattle(t, 2)
	ctx := context.Background()
	b.Enemies()[1].HP = 0
	b.Enemies()[2].HP = 0
	b.CurrentEnemy().HP = 1

	b.SelectAction(ctx, ActionAttack)
	assert.Equal(t, PhaseBattle, b.Phase())

	b.Tick(ctx, 1)
	assert.Equal(t, PhaseVictory, b.Phase())

	stats := b.View().Stats
	assert.Equal(t, 1, stats.Level)
	assert.Equal(t, 3, stats.MonstersDefeated)
	assert.Equal(t, 3, stats.PotionsRemaining)

	assert.Equal(t, combat.RejectWrongPhase, b.SelectAction(ctx, ActionAttack).Reason)
}

func TestDefeat_OnTick(t *testing.T) {
	// Gobbly basic attack with jitter +2 kills a 1 HP hero.
	b, _ := startedBattle(t, 2, 0, 4)
	ctx := context.Background()
	b.SelectAction(ctx, ActionAttack)
	b.Hero().HP = 1

	b.Tick(ctx, attackFrames+enemyDelay)
	assert.False(t, b.Hero().IsAlive())
	assert.Equal(t, PhaseBattle, b.Phase())

	b.Tick(ctx, 1)
	assert.Equal(t, PhaseDefeat, b.Phase())
}

func TestDefeat_TakesPrecedence(t *testing.T) {
	b, _ := startedBattle(t)
	b.Hero().HP = 0
	for _, e := range b.Enemies() {
		e.HP = 0
	}

	b.Tick(context.Background(), 1)
	assert.Equal(t, PhaseDefeat, b.Phase())
}

func TestReset(t *testing.T) {
	b, _ := startedBattle(t, 2)
	ctx := context.Background()

	assert.False(t, b.Reset(ctx), "reset is only allowed after the battle ends")

	b.SelectAction(ctx, ActionAttack)
	b.Hero().HP = 0
	b.Hero().Potions = 0
	b.Tick(ctx, 1)
	require.Equal(t, PhaseDefeat, b.Phase())
	before := b.ID()

	require.True(t, b.Reset(ctx))

	assert.Equal(t, PhaseMenu, b.Phase())
	assert.NotEqual(t, before, b.ID())
	assert.Equal(t, 25, b.Hero().HP)
	assert.Equal(t, 3, b.Hero().Potions)
	assert.Equal(t, 15, b.CurrentEnemy().HP)
	assert.Equal(t, 0, b.ActiveEnemyIndex())
	assert.True(t, b.IsPlayerTurn())
	assert.Equal(t, 0, b.TurnCount())
	assert.Nil(t, b.LastOutcome())
	assert.Equal(t, "Battle begins! Your turn!", b.Message())
	assert.True(t, b.StartBattle(ctx))
}

func TestMessage_Expires(t *testing.T) {
	b, _ := startedBattle(t)
	ctx := context.Background()

	b.Tick(ctx, messageTime-1)
	assert.NotEmpty(t, b.Message())
	b.Tick(ctx, 1)
	assert.Empty(t, b.Message())
	assert.Empty(t, b.View().Message)
}

func TestView(t *testing.T) {
	b, _ := startedBattle(t, 2)
	ctx := context.Background()

	v := b.View()
	assert.Equal(t, PhaseBattle, v.Phase)
	assert.Equal(t, TurnPlayer, v.TurnIndicator)
	assert.Equal(t, b.ID().String(), v.BattleID)
	assert.Equal(t, "Hero", v.Hero.Name)
	assert.Equal(t, 3, v.Hero.Potions)
	assert.Equal(t, '@', v.Hero.Glyph)
	assert.Equal(t, "Critical Strike", v.Hero.Ability)
	assert.Equal(t, 20, v.Hero.NextLevelAt)
	assert.Equal(t, "Gobbly", v.Enemy.Name)
	assert.Len(t, v.Enemies, 3)

	b.SelectAction(ctx, ActionAttack)
	v = b.View()
	assert.Equal(t, TurnEnemy, v.TurnIndicator)
	require.NotNil(t, v.LastOutcome)
	assert.Equal(t, 7, v.LastOutcome.Damage)
	assert.True(t, v.Hero.Animation.Busy())

	v.LastOutcome.Damage = 99
	assert.Equal(t, 7, b.LastOutcome().Damage, "the view holds a copy")
}

func TestLogsPhaseTransitions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	b, err := New(Options{
		Catalog: gamedata.MustLoadCatalog(),
		Source:  dice.NewScriptedSource(),
		Logger:  zap.New(core),
	})
	require.NoError(t, err)

	b.StartBattle(context.Background())

	entries := logs.FilterMessage("battle phase changed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "menu", fields["from"])
	assert.Equal(t, "battle", fields["to"])
	assert.Equal(t, b.ID().String(), fields["battle_id"])
}

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	b, err := New(Options{
		Catalog: gamedata.MustLoadCatalog(),
		Source:  dice.NewScriptedSource(2, 0, 2),
		Tracer:  provider.Tracer("test"),
	})
	require.NoError(t, err)
	ctx := context.Background()

	b.StartBattle(ctx)
	b.SelectAction(ctx, ActionAttack)
	b.Tick(ctx, attackFrames+enemyDelay)
	b.Hero().HP = 0
	b.Tick(ctx, 1)

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"battle.start", "battle.turn", "battle.enemy_turn", "battle.end"}, names)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "menu", PhaseMenu.String())
	assert.Equal(t, "battle", PhaseBattle.String())
	assert.Equal(t, "victory", PhaseVictory.String())
	assert.Equal(t, "defeat", PhaseDefeat.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.True(t, PhaseVictory.Finished())
	assert.False(t, PhaseBattle.Finished())
}

// Random play never breaks stat bounds and phases only move forward.
func TestRandomPlay_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64Range(1, 1<<40).Draw(rt, "seed")
		b, err := New(Options{Catalog: gamedata.MustLoadCatalog(), Source: dice.NewSeededSource(seed)})
		if err != nil {
			rt.Fatal(err)
		}
		ctx := context.Background()
		b.StartBattle(ctx)

		lastPhase := b.Phase()
		steps := rapid.IntRange(1, 200).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 4).Draw(rt, "op") {
			case 0:
				b.SelectAction(ctx, ActionAttack)
			case 1:
				b.SelectAction(ctx, ActionSpecial)
			case 2:
				b.SelectAction(ctx, ActionPotion)
			case 3:
				b.SelectNextEnemy(ctx)
			case 4:
				b.Tick(ctx, rapid.IntRange(1, 60).Draw(rt, "frames"))
			}

			hero := b.Hero()
			if hero.HP < 0 || hero.HP > hero.MaxHP || hero.Potions < 0 {
				rt.Fatalf("hero out of bounds: hp=%d/%d potions=%d", hero.HP, hero.MaxHP, hero.Potions)
			}
			for _, e := range b.Enemies() {
				if e.HP < 0 || e.HP > e.MaxHP || e.Defense < 0 {
					rt.Fatalf("%s out of bounds: hp=%d/%d def=%d", e.Name, e.HP, e.MaxHP, e.Defense)
				}
			}
			if b.Phase() < lastPhase || (lastPhase.Finished() && b.Phase() != lastPhase) {
				rt.Fatalf("phase moved backwards: %s -> %s", lastPhase, b.Phase())
			}
			lastPhase = b.Phase()
		}
	})
}
