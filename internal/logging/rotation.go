package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/robfig/cron/v3"
)

// scheduleParser accepts descriptors (@every 1m, @hourly) and standard
// 5-field expressions with optional seconds.
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// TruncateIfNeeded truncates file if it exceeds maxSize
func TruncateIfNeeded(path string, maxSize int64) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.Size() > maxSize {
		if err := os.Truncate(path, 0); err != nil {
			slog.Warn("Failed to truncate log file", "path", path, "error", err)
		} else {
			slog.Info("Truncated log file", "path", path, "prev_size", info.Size())
		}
	}
}

// StartRotation checks the log file size on the given cron schedule until
// ctx is cancelled. It is a no-op when logging to stdout only.
func (l *Logger) StartRotation(ctx context.Context, maxSize int64, schedule string) error {
	if l.path == "" {
		return nil
	}
	c := cron.New(cron.WithParser(scheduleParser))
	path := l.path
	if _, err := c.AddFunc(schedule, func() { TruncateIfNeeded(path, maxSize) }); err != nil {
		return fmt.Errorf("invalid rotation schedule %q: %w", schedule, err)
	}
	c.Start()
	go func() {
		<-ctx.Done()
		c.Stop()
	}()
	return nil
}
