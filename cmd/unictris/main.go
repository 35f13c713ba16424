package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/plus3/unictris/config"
	"github.com/plus3/unictris/ecs"
	"github.com/plus3/unictris/game"
	"github.com/plus3/unictris/scores"
	"github.com/plus3/unictris/term"
)

const topScores = 5

func main() {
	flags := newFlags(os.Args[0], flag.ExitOnError)
	_ = flags.parse(os.Args[1:])

	cfg, found, err := config.Load(*flags.config)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	flags.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// The game owns the terminal, so logs go to a file or nowhere.
	log.SetOutput(io.Discard)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}
	if found {
		log.Printf("Loaded config from %s", *flags.config)
	}

	result, err := run(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Score: %d; Level: %d\n", result.Score, result.Level)
}

func run(cfg config.Config) (game.Result, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := scores.Open(ctx, cfg.ScoreDB)
	if err != nil {
		log.Printf("Scores disabled: %v", err)
		store = nil
	}
	defer store.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return game.Result{}, fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return game.Result{}, fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	theme, _ := term.LookupTheme(cfg.Theme)
	render := &term.RenderSystem{
		Screen:     screen,
		Theme:      theme,
		HighScores: leaderboard(ctx, store),
	}

	settings := game.DefaultSettings()
	settings.DropFrames = cfg.DropFrames
	settings.LevelTicks = cfg.LevelTicks

	g, gctx := errgroup.WithContext(ctx)
	runCtx, cancel := context.WithCancel(gctx)
	defer cancel()

	actions := make(chan game.Action, 16)
	world := game.NewWorld(game.Options{
		Settings: settings,
		Seed:     cfg.Seed,
		Ghost:    cfg.Ghost,
		Actions:  actions,
		Frontend: []ecs.System{render},
		Record: func(r game.Result) {
			log.Printf("Game over: score %d level %d lines %d pieces %d", r.Score, r.Level, r.Lines, r.Pieces)
			entry := scores.Entry{
				Name:   cfg.Player,
				Score:  r.Score,
				Level:  r.Level,
				Lines:  r.Lines,
				Pieces: r.Pieces,
			}
			if err := store.Record(context.WithoutCancel(ctx), entry); err != nil {
				log.Printf("Failed to record score: %v", err)
				return
			}
			render.HighScores = leaderboard(context.WithoutCancel(ctx), store)
		},
		Stop: cancel,
	})
	render.Stats = world.Scheduler.Stats

	log.Printf("Starting: seed %d theme %s tick %s", cfg.Seed, cfg.Theme, cfg.TickInterval)
	g.Go(func() error {
		return term.Pump(runCtx, screen, actions)
	})
	g.Go(func() error {
		world.Scheduler.Run(runCtx, cfg.TickInterval)
		return nil
	})
	if err := g.Wait(); err != nil {
		return game.Result{}, err
	}
	if ctx.Err() != nil {
		// Interrupted by a signal: the loop never saw a quit.
		world.Quit()
	}

	result := world.Result()
	log.Printf("Exit after %d ticks", result.Ticks)
	return result, nil
}

func leaderboard(ctx context.Context, store *scores.Store) []term.HighScore {
	entries, err := store.Top(ctx, topScores)
	if err != nil {
		log.Printf("Failed to load scores: %v", err)
		return nil
	}
	out := make([]term.HighScore, len(entries))
	for i, e := range entries {
		out[i] = term.HighScore{Name: e.Name, Score: e.Score, Level: e.Level}
	}
	return out
}
