package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		s := c.Settings()
		fmt.Printf("Timezone:               %s\n", s.Timezone)
		fmt.Printf("Feeding interval:       %.1f h\n", s.FeedingIntervalHours)
		fmt.Printf("Daily milk target:      %d ml\n", s.DailyMilkTargetML)
		fmt.Printf("Dark mode:              %v\n", s.DarkMode)
		fmt.Printf("Notifications enabled:  %v\n", s.NotificationsEnabled)
		if s.BirthDate != nil {
			fmt.Printf("Birth date:             %s\n", s.BirthDate.Format("2006-01-02"))
		}
		return nil
	},
}

var (
	settingTimezone      string
	settingInterval      float64
	settingMilkTarget    int
	settingDarkMode      bool
	settingNotifications bool
	settingBirthDate     string
)

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change one or more settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		s := c.Settings()
		if cmd.Flags().Changed("timezone") {
			if _, err := time.LoadLocation(settingTimezone); err != nil {
				return fmt.Errorf("unknown timezone %q", settingTimezone)
			}
			s.Timezone = settingTimezone
		}
		if cmd.Flags().Changed("feeding-interval") {
			if settingInterval <= 0 {
				return fmt.Errorf("feeding interval must be positive")
			}
			s.FeedingIntervalHours = settingInterval
		}
		if cmd.Flags().Changed("milk-target") {
			s.DailyMilkTargetML = settingMilkTarget
		}
		if cmd.Flags().Changed("dark-mode") {
			s.DarkMode = settingDarkMode
		}
		if cmd.Flags().Changed("notifications") {
			s.NotificationsEnabled = settingNotifications
		}
		if cmd.Flags().Changed("birth-date") {
			t, err := time.Parse("2006-01-02", settingBirthDate)
			if err != nil {
				return fmt.Errorf("cannot parse birth date %q (use YYYY-MM-DD)", settingBirthDate)
			}
			s.BirthDate = &t
		}

		if err := c.UpdateSettings(ctx, s); err != nil {
			return err
		}
		fmt.Println("Settings updated.")
		return nil
	},
}

func init() {
	settingsSetCmd.Flags().StringVar(&settingTimezone, "timezone", "", "IANA timezone name")
	settingsSetCmd.Flags().Float64Var(&settingInterval, "feeding-interval", 0, "default hours between feedings")
	settingsSetCmd.Flags().IntVar(&settingMilkTarget, "milk-target", 0, "daily milk target in ml")
	settingsSetCmd.Flags().BoolVar(&settingDarkMode, "dark-mode", false, "enable dark mode")
	settingsSetCmd.Flags().BoolVar(&settingNotifications, "notifications", false, "enable reminders")
	settingsSetCmd.Flags().StringVar(&settingBirthDate, "birth-date", "", "birth date as YYYY-MM-DD")

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
