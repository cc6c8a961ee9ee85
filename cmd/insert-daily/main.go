// Command insert-daily runs the daily attendance derivation once, for today or the given YYYY-MM-DD date.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/institute-attendance-go/internal/app"
	"github.com/cmlabs-hris/institute-attendance-go/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Daily attendance run failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.SetDefault(app.NewLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	date := time.Now().In(a.Location)
	if len(os.Args) > 1 {
		date, err = time.ParseInLocation(time.DateOnly, os.Args[1], a.Location)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", os.Args[1], err)
		}
	}

	result, err := a.AttendanceService.RunDaily(ctx, date)
	if err != nil {
		return err
	}

	slog.Info("Daily attendance run finished",
		"run_id", result.RunID,
		"date", result.Date,
		"day_type", result.DayType,
		"upserted", result.Upserted,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	if result.Failed > 0 {
		return fmt.Errorf("%d employee branches failed", result.Failed)
	}
	return nil
}
