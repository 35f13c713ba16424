package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/unictris/ecs"
)

// gameResult is what one soak goroutine hands back.
type gameResult struct {
	Finished  int
	Pieces    int
	Lines     int
	BestScore int
	Samples   []time.Duration
	Systems   []ecs.SystemStats
	Storage   *ecs.StorageStats
}

type Report struct {
	// Configuration
	Duration time.Duration
	Games    int
	Seed     uint64

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GamesFinished  int
	PiecesLocked   int
	LinesCleared   int
	BestScore      int
	MaxEntities    int
	Systems        []ecs.SystemStats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Add folds one game's results into the report. Per-system stats are
// merged by system name.
func (r *Report) Add(res gameResult) {
	r.TotalUpdates += int64(len(res.Samples))
	r.UpdateTime.Samples = append(r.UpdateTime.Samples, res.Samples...)
	r.GamesFinished += res.Finished
	r.PiecesLocked += res.Pieces
	r.LinesCleared += res.Lines
	r.BestScore = max(r.BestScore, res.BestScore)
	if res.Storage != nil {
		r.MaxEntities = max(r.MaxEntities, res.Storage.TotalEntityCount)
	}

	for _, sys := range res.Systems {
		i := r.systemIndex(sys.Name)
		if i < 0 {
			r.Systems = append(r.Systems, sys)
			continue
		}
		merged := &r.Systems[i]
		if sys.ExecutionCount == 0 {
			continue
		}
		if merged.ExecutionCount == 0 || sys.MinDuration < merged.MinDuration {
			merged.MinDuration = sys.MinDuration
		}
		merged.MaxDuration = max(merged.MaxDuration, sys.MaxDuration)
		merged.ExecutionCount += sys.ExecutionCount
		merged.TotalDuration += sys.TotalDuration
		merged.LastDuration = sys.LastDuration
		merged.AvgDuration = merged.TotalDuration / time.Duration(merged.ExecutionCount)
	}
}

func (r *Report) systemIndex(name string) int {
	for i, sys := range r.Systems {
		if sys.Name == name {
			return i
		}
	}
	return -1
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Unictris Soak Report

## Configuration
- **Run Duration:** {{.Duration}}
- **Concurrent Games:** {{.Games}}
- **Seed:** {{.Seed}}

## Gameplay
- **Games Finished:** {{.GamesFinished}}
- **Pieces Locked:** {{.PiecesLocked}}
- **Lines Cleared:** {{.LinesCleared}}
- **Best Score:** {{.BestScore}}
- **Peak Entities:** {{.MaxEntities}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Update Time (Tick):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
| System | Executions | Avg | Min | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
