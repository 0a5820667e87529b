package game

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/battlearena/internal/battle"
	"github.com/samdwyer/battlearena/internal/config"
	"github.com/samdwyer/battlearena/internal/dice"
	"github.com/samdwyer/battlearena/internal/gamedata"
	"github.com/samdwyer/battlearena/internal/telemetry"
	"github.com/samdwyer/battlearena/internal/ui"
)

// Options configures a new Game.
type Options struct {
	Config  config.GameConfig
	Catalog *gamedata.Catalog // Defaults to the embedded data
	Logger  *zap.Logger
}

// Game holds the entire game state.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	battle   *battle.Battle
	logger   *zap.Logger
	tracer   trace.Tracer
	fps      int
	running  bool
}

// New creates a new game instance on the terminal.
func New(opts Options) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g, err := NewWithScreen(screen, opts)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// NewWithScreen creates a game that draws to an already initialized screen.
func NewWithScreen(screen *ui.Screen, opts Options) (*Game, error) {
	if opts.Config.FPS <= 0 {
		return nil, errors.New("game: fps must be positive")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = gamedata.LoadCatalog(); err != nil {
			return nil, err
		}
	}

	b, err := battle.New(battle.Options{
		Catalog: catalog,
		Source:  dice.NewSeededSource(opts.Config.Seed),
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		battle:   b,
		logger:   logger,
		tracer:   telemetry.Tracer("game"),
		fps:      opts.Config.FPS,
		running:  true,
	}, nil
}

// Battle returns the battle driven by the game loop.
func (g *Game) Battle() *battle.Battle { return g.battle }

// Run executes the main game loop: one battle tick and one render per frame,
// with input applied between frames. It returns when the player quits or ctx
// is cancelled, and closes the screen.
func (g *Game) Run(ctx context.Context) error {
	_, initSpan := g.tracer.Start(ctx, "game.init")
	initSpan.SetAttributes(
		attribute.Int("game.fps", g.fps),
		attribute.String("battle.id", g.battle.ID().String()),
		attribute.Int("enemy_count", len(g.battle.Enemies())),
	)
	initSpan.End()
	g.logger.Info("game started", zap.Int("fps", g.fps), zap.String("battle_id", g.battle.ID().String()))

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go g.pollEvents(events, done)

	ticker := time.NewTicker(time.Second / time.Duration(g.fps))
	defer ticker.Stop()

	g.renderer.Render(g.battle.View())
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case <-ticker.C:
			g.battle.Tick(ctx, 1)
			g.renderer.Render(g.battle.View())
		}
	}

	g.logger.Info("game stopped", zap.String("phase", g.battle.Phase().String()))
	g.screen.Close()
	return nil
}

// pollEvents forwards terminal events until the screen is finalized or
// done is closed.
func (g *Game) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleCommand(ctx, commandForKey(ev.Key(), ev.Rune()))
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleCommand applies a command to the battle.
func (g *Game) handleCommand(ctx context.Context, cmd Command) {
	switch cmd {
	case CommandQuit:
		g.running = false
	case CommandConfirm:
		switch {
		case g.battle.Phase() == battle.PhaseMenu:
			g.battle.StartBattle(ctx)
		case g.battle.Phase().Finished():
			g.battle.Reset(ctx)
		}
	case CommandAttack:
		g.battle.SelectAction(ctx, battle.ActionAttack)
	case CommandSpecial:
		g.battle.SelectAction(ctx, battle.ActionSpecial)
	case CommandPotion:
		g.battle.SelectAction(ctx, battle.ActionPotion)
	case CommandNextEnemy:
		g.battle.SelectNextEnemy(ctx)
	default:
		return
	}
	g.logger.Debug("command handled", zap.String("command", cmd.String()), zap.String("phase", g.battle.Phase().String()))
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
