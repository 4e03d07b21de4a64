package tracker

import (
	"context"
	"time"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

// Settings returns the current settings snapshot.
func (c *Controller) Settings() model.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// UpdateSettings persists the settings through the active backend's
// metadata/scalar surface and refreshes the snapshot.
func (c *Controller) UpdateSettings(ctx context.Context, s model.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.setSetting(ctx, model.SettingTimezone, s.Timezone); err != nil {
		return err
	}
	if err := c.setSetting(ctx, model.SettingDarkMode, s.DarkMode); err != nil {
		return err
	}
	if err := c.setSetting(ctx, model.SettingFeedingInterval, s.FeedingIntervalHours); err != nil {
		return err
	}
	if err := c.setSetting(ctx, model.SettingDailyMilkTarget, s.DailyMilkTargetML); err != nil {
		return err
	}
	if err := c.setSetting(ctx, model.SettingNotificationsEnabled, s.NotificationsEnabled); err != nil {
		return err
	}
	if s.BirthDate != nil {
		if err := c.setSetting(ctx, model.SettingBirthDate, s.BirthDate.UTC().Format(time.RFC3339)); err != nil {
			return err
		}
	}

	c.settings = s
	return nil
}

// loadSettings overlays persisted values on the config-derived defaults.
// Read once at startup; absent keys keep their defaults.
func (c *Controller) loadSettings(ctx context.Context, cfg *model.AppConfig) {
	s := model.DefaultSettings()
	if cfg.FeedingIntervalHours > 0 {
		s.FeedingIntervalHours = cfg.FeedingIntervalHours
	}
	if cfg.Timezone != "" {
		s.Timezone = cfg.Timezone
	}

	c.getSetting(ctx, model.SettingTimezone, &s.Timezone)
	c.getSetting(ctx, model.SettingDarkMode, &s.DarkMode)
	c.getSetting(ctx, model.SettingFeedingInterval, &s.FeedingIntervalHours)
	c.getSetting(ctx, model.SettingDailyMilkTarget, &s.DailyMilkTargetML)
	c.getSetting(ctx, model.SettingNotificationsEnabled, &s.NotificationsEnabled)

	var birth string
	if c.getSetting(ctx, model.SettingBirthDate, &birth) {
		if t, err := time.Parse(time.RFC3339, birth); err == nil {
			s.BirthDate = &t
		}
	}

	c.settings = s
}

func (c *Controller) setSetting(ctx context.Context, key string, value any) error {
	if c.mode == ModePrimary {
		return c.records.SetMetadata(ctx, key, value)
	}
	return c.flat.SetScalar(key, value)
}

func (c *Controller) getSetting(ctx context.Context, key string, dest any) bool {
	var (
		found bool
		err   error
	)
	if c.mode == ModePrimary {
		found, err = c.records.GetMetadata(ctx, key, dest)
	} else {
		found, err = c.flat.GetScalar(key, dest)
	}
	if err != nil {
		c.log.Warn("reading setting", "key", key, "error", err)
		return false
	}
	return found
}
