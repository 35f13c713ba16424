package main

import (
	"flag"
	"time"

	"github.com/plus3/unictris/config"
)

// cliFlags holds the command line. Flags the user sets override the
// config file; the shown defaults are the built-in settings.
type cliFlags struct {
	fs *flag.FlagSet

	config  *string
	tick    *time.Duration
	seed    *uint64
	theme   *string
	ghost   *bool
	player  *string
	scoreDB *string
	logFile *string
}

func newFlags(name string, errorHandling flag.ErrorHandling) *cliFlags {
	def := config.Default()
	fs := flag.NewFlagSet(name, errorHandling)
	return &cliFlags{
		fs:      fs,
		config:  fs.String("config", config.DefaultPath(), "YAML settings file. Missing files are ignored."),
		tick:    fs.Duration("tick", def.TickInterval, "Length of one simulation tick."),
		seed:    fs.Uint64("seed", def.Seed, "Piece sequence seed. 0 picks one from the clock."),
		theme:   fs.String("theme", def.Theme, "Board theme: blocks, glyph or runes."),
		ghost:   fs.Bool("ghost", def.Ghost, "Show where the piece will land."),
		player:  fs.String("player", def.Player, "Name stored with your scores."),
		scoreDB: fs.String("scores", def.ScoreDB, "SQLite leaderboard file. Pass an empty value to disable it."),
		logFile: fs.String("log", def.LogFile, "Append logs to this file."),
	}
}

func (f *cliFlags) parse(args []string) error {
	return f.fs.Parse(args)
}

// apply copies every flag set on the command line into cfg.
func (f *cliFlags) apply(cfg *config.Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "tick":
			cfg.TickInterval = *f.tick
		case "seed":
			cfg.Seed = *f.seed
		case "theme":
			cfg.Theme = *f.theme
		case "ghost":
			cfg.Ghost = *f.ghost
		case "player":
			cfg.Player = *f.player
		case "scores":
			cfg.ScoreDB = *f.scoreDB
		case "log":
			cfg.LogFile = *f.logFile
		}
	})
}
