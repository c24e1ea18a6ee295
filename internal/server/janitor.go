package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eckman-tech/md2pdf-server/internal/fileutil"
)

// Janitor periodically removes request upload directories older than
// maxAge. Scopes release their own directory; the janitor only catches
// those left behind when the process died mid-request.
type Janitor struct {
	root   string
	maxAge time.Duration
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewJanitor schedules sweeps of root with a standard cron spec or a
// descriptor such as "@every 10m". Call Start to begin.
func NewJanitor(root, schedule string, maxAge time.Duration, logger *zap.Logger) (*Janitor, error) {
	cronLog := cron.PrintfLogger(zap.NewStdLog(logger))
	j := &Janitor{
		root:   root,
		maxAge: maxAge,
		logger: logger,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog))),
		now:    time.Now,
	}

	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start runs the scheduler in the background.
func (j *Janitor) Start() {
	j.logger.Info("upload janitor started", zap.String("root", j.root), zap.Duration("maxAge", j.maxAge))
	j.cron.Start()
}

// Stop stops scheduling and waits for a running sweep, up to ctx.
func (j *Janitor) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

func (j *Janitor) run() {
	removed, err := j.Sweep()
	if err != nil {
		j.logger.Warn("upload sweep incomplete", zap.Int("removed", removed), zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("removed stale upload directories", zap.Int("removed", removed))
	}
}

// Sweep removes stale scope directories under root and returns how many
// were removed. Entries not created by a Scope are left alone.
func (j *Janitor) Sweep() (int, error) {
	entries, err := os.ReadDir(j.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	cutoff := j.now().Add(-j.maxAge)
	removed := 0
	var errs []error

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), fileutil.TempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // removed concurrently
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(j.root, entry.Name())); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
