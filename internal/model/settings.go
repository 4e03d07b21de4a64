package model

import "time"

// Settings keys, used as metadata keys in the primary backend and as
// scalar keys in the fallback backend.
const (
	SettingTimezone             = "timezone"
	SettingDarkMode             = "dark_mode"
	SettingFeedingInterval      = "feeding_interval_hours"
	SettingDailyMilkTarget      = "daily_milk_target_ml"
	SettingBirthDate            = "birth_date"
	SettingNotificationsEnabled = "notifications_enabled"
)

// DefaultFeedingIntervalHours is used when a feeding carries no explicit
// next-feeding interval and no configured default exists.
const DefaultFeedingIntervalHours = 3.0

// Settings is the user-configurable state read once at startup and
// written through the metadata/scalar surface of the active backend.
type Settings struct {
	Timezone             string     `json:"timezone"`
	DarkMode             bool       `json:"dark_mode"`
	FeedingIntervalHours float64    `json:"feeding_interval_hours"`
	DailyMilkTargetML    int        `json:"daily_milk_target_ml"`
	BirthDate            *time.Time `json:"birth_date,omitempty"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
}

// DefaultSettings returns the settings applied on a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Timezone:             time.Local.String(),
		FeedingIntervalHours: DefaultFeedingIntervalHours,
		NotificationsEnabled: true,
	}
}
