package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/model"
	"github.com/lucasgonzalez939/babytrack/internal/tracker"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "babytrack",
	Short:         "Track feedings, diapers, growth, and care events for your baby",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file path")
}

// newController builds a controller from the configured data directory.
// Callers must Close it.
func newController(ctx context.Context) (*tracker.Controller, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	c, err := tracker.New(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if c.Mode() == tracker.ModeFallback {
		fmt.Fprintln(os.Stderr, faintStyle.Render("record store unavailable; running against flat files"))
	}
	return c, nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
)

// parsePeriod maps the --period flag onto a tracker period.
func parsePeriod(s string) (tracker.Period, error) {
	switch s {
	case "", "all":
		return tracker.PeriodAll, nil
	case "today":
		return tracker.PeriodToday, nil
	case "week":
		return tracker.PeriodWeek, nil
	case "month":
		return tracker.PeriodMonth, nil
	}
	return "", fmt.Errorf("unknown period %q (use today, week, month, or all)", s)
}

// parseTimeFlag accepts RFC 3339 or "YYYY-MM-DD HH:MM"; empty means now.
func parseTimeFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q (use RFC 3339 or \"YYYY-MM-DD HH:MM\")", s)
}

func formatWhen(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
