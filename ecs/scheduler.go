package ecs

import (
	"context"
	"reflect"
	"time"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	TotalExecutions int64
	Frames          uint64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

// storageBinder is implemented by *Query[T] and *Singleton[T].
type storageBinder interface {
	Init(storage *Storage)
}

// executor is implemented by *Query[T].
type executor interface {
	Execute()
}

type registeredSystem struct {
	system  System
	queries []executor
	stats   SystemStats
}

// Scheduler runs registered systems in order, one step at a time.
type Scheduler struct {
	storage  *Storage
	systems  []*registeredSystem
	commands Commands
	frames   uint64
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Storage returns the storage the scheduler drives.
func (s *Scheduler) Storage() *Storage {
	return s.storage
}

// Register appends system to the run order and wires its exported Query
// and Singleton fields to the scheduler's storage.
func (s *Scheduler) Register(system System) {
	entry := &registeredSystem{system: system}

	value := reflect.ValueOf(system)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	if value.Kind() == reflect.Struct {
		for i := 0; i < value.NumField(); i++ {
			field := value.Field(i)
			if !field.CanSet() || field.Kind() != reflect.Struct {
				continue
			}
			addr := field.Addr().Interface()
			if binder, ok := addr.(storageBinder); ok {
				binder.Init(s.storage)
			}
			if q, ok := addr.(executor); ok {
				entry.queries = append(entry.queries, q)
			}
		}
	}

	entry.stats.Name = value.Type().Name()
	entry.stats.MinDuration = time.Duration(1<<63 - 1)
	s.systems = append(s.systems, entry)
}

// Once runs every system once, then flushes queued commands.
func (s *Scheduler) Once(dt float64) {
	s.frames++
	frame := &UpdateFrame{
		DeltaTime: dt,
		Frame:     s.frames,
		Commands:  &s.commands,
		Storage:   s.storage,
	}

	for _, entry := range s.systems {
		start := time.Now()
		for _, q := range entry.queries {
			q.Execute()
		}
		entry.system.Execute(frame)
		entry.record(time.Since(start))
	}

	s.commands.Flush(s.storage)
}

func (r *registeredSystem) record(d time.Duration) {
	st := &r.stats
	st.ExecutionCount++
	st.LastDuration = d
	st.TotalDuration += d
	st.MinDuration = min(st.MinDuration, d)
	st.MaxDuration = max(st.MaxDuration, d)
	st.AvgDuration = st.TotalDuration / time.Duration(st.ExecutionCount)
}

// Run steps the scheduler every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Once(dt)
		}
	}
}

// Stats returns a snapshot of per-system execution statistics.
func (s *Scheduler) Stats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systems)),
	}
	for i, entry := range s.systems {
		stats.Systems[i] = entry.stats
		if entry.stats.ExecutionCount == 0 {
			stats.Systems[i].MinDuration = 0
		}
		stats.TotalExecutions += entry.stats.ExecutionCount
	}
	return stats
}
