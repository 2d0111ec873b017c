package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Dr-Rakesh/Answer-automation/config"
	"github.com/robfig/cron/v3"
)

// Sweeper prunes old files from the working directories on a cron
// schedule so long-running deployments do not fill the disk.
type Sweeper struct {
	cron   *cron.Cron
	dirs   []string
	maxAge time.Duration
}

// NewSweeper registers a sweep job on the given six-field cron spec.
func NewSweeper(cfg *config.SweeperConfig, dirs ...string) (*Sweeper, error) {
	s := &Sweeper{
		cron:   cron.New(cron.WithSeconds()),
		dirs:   dirs,
		maxAge: time.Duration(cfg.MaxAgeDays) * 24 * time.Hour,
	}
	if _, err := s.cron.AddJob(cfg.Spec, s); err != nil {
		return nil, fmt.Errorf("failed to register sweep schedule '%s': %w", cfg.Spec, err)
	}
	return s, nil
}

// Run implements cron.Job.
func (s *Sweeper) Run() {
	removed, err := s.Sweep()
	if err != nil {
		slog.Error("retention sweep finished with errors", "removed", removed, "error", err)
		return
	}
	slog.Info("retention sweep finished", "removed", removed)
}

// Sweep removes regular files older than the retention age from every
// watched directory and reports how many were deleted. Subdirectories
// are left alone.
func (s *Sweeper) Sweep() (int, error) {
	cutoff := time.Now().Add(-s.maxAge)
	removed := 0
	var firstErr error

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to read %s: %w", dir, err)
			}
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if err := os.Remove(path); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to remove %s: %w", path, err)
				}
				continue
			}
			removed++
		}
	}

	return removed, firstErr
}

// Start launches the schedule in the background.
func (s *Sweeper) Start() {
	s.cron.Start()
	slog.Info("retention sweeper started", "dirs", s.dirs, "max_age", s.maxAge.String())
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Second):
		slog.Warn("sweeper stop timed out, a sweep may still be running")
	}
}
