package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/plus3/unictris/game"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the soak should run for.")
	games := flag.Int("games", runtime.NumCPU(), "The number of games played concurrently.")
	seed := flag.Uint64("seed", 1, "Seed for piece sequences and autoplay moves.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	if *games < 1 {
		log.Fatalf("games must be at least 1, got %d", *games)
	}
	log.Printf("Starting soak: %d games for %s...", *games, *duration)

	report := &Report{
		Duration:       *duration,
		Games:          *games,
		Seed:           *seed,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	startTime := time.Now()
	for i := range *games {
		g.Go(func() error {
			res := play(ctx, *seed+uint64(i))
			mu.Lock()
			report.Add(res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Soak failed: %v", err)
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	log.Println("Soak finished.")

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

// autoplay picks a random move for every tick and restarts finished games.
type autoplay struct {
	rng     *rand.Rand
	actions chan game.Action
}

var moves = []game.Action{
	game.ActionNone,
	game.ActionNone,
	game.ActionNone,
	game.MoveLeft,
	game.MoveRight,
	game.Rotate,
	game.Drop,
}

func (a *autoplay) next(session *game.Session) {
	if session.Over {
		a.actions <- game.Restart
		return
	}
	if move := moves[a.rng.IntN(len(moves))]; move != game.ActionNone {
		a.actions <- move
	}
}

// play runs one headless game as fast as possible until ctx is done.
func play(ctx context.Context, seed uint64) gameResult {
	bot := &autoplay{
		rng:     rand.New(rand.NewPCG(seed, ^seed)),
		actions: make(chan game.Action, 1),
	}

	var res gameResult
	world := game.NewWorld(game.Options{
		Seed:    seed,
		Actions: bot.actions,
		Record: func(r game.Result) {
			res.Finished++
			res.Pieces += r.Pieces
			res.Lines += r.Lines
			res.BestScore = max(res.BestScore, r.Score)
		},
	})

	last := time.Now()
	for ctx.Err() == nil {
		bot.next(world.Session())

		start := time.Now()
		world.Scheduler.Once(start.Sub(last).Seconds())
		res.Samples = append(res.Samples, time.Since(start))
		last = start
	}

	res.Systems = world.Scheduler.Stats().Systems
	res.Storage = world.Storage.CollectStats()
	return res
}
