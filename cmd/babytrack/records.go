package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

var (
	recordTime   string
	recordPeriod string
	recordNotes  string
)

// --- measurements ---

var measurementCmd = &cobra.Command{
	Use:   "measurement",
	Short: "Record and list growth measurements",
}

var (
	measurementWeight float64
	measurementHeight float64
)

var measurementAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a measurement",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(recordTime)
		if err != nil {
			return err
		}
		m := model.Measurement{Time: t}
		if cmd.Flags().Changed("weight") {
			m.Weight = &measurementWeight
		}
		if cmd.Flags().Changed("height") {
			m.Height = &measurementHeight
		}
		stored, err := c.AddMeasurement(ctx, m)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded measurement #%d at %s\n", stored.ID, formatWhen(stored.Time))
		return nil
	},
}

var measurementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List measurements",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(recordPeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		measurements := c.ListMeasurements(period)
		if len(measurements) == 0 {
			fmt.Println("No measurements recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              WEIGHT    HEIGHT"))
		for _, m := range measurements {
			weight, height := "-", "-"
			if m.Weight != nil {
				weight = fmt.Sprintf("%.2f kg", *m.Weight)
			}
			if m.Height != nil {
				height = fmt.Sprintf("%.1f cm", *m.Height)
			}
			fmt.Printf("%-11d %-17s %-9s %s\n", m.ID, formatWhen(m.Time), weight, height)
		}
		return nil
	},
}

// --- temperatures ---

var temperatureCmd = &cobra.Command{
	Use:   "temperature",
	Short: "Record and list temperature readings",
}

var temperatureValue float64

var temperatureAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a temperature reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(recordTime)
		if err != nil {
			return err
		}
		stored, err := c.AddTemperature(ctx, model.Temperature{
			Time:  t,
			Value: temperatureValue,
			Notes: recordNotes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %.1f°C #%d at %s\n", stored.Value, stored.ID, formatWhen(stored.Time))
		return nil
	},
}

var temperatureListCmd = &cobra.Command{
	Use:   "list",
	Short: "List temperature readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(recordPeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		temps := c.ListTemperatures(period)
		if len(temps) == 0 {
			fmt.Println("No temperature readings recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              VALUE    NOTES"))
		for _, t := range temps {
			fmt.Printf("%-11d %-17s %-8s %s\n", t.ID, formatWhen(t.Time), fmt.Sprintf("%.1f°C", t.Value), t.Notes)
		}
		return nil
	},
}

// --- appointments ---

var appointmentCmd = &cobra.Command{
	Use:   "appointment",
	Short: "Record and list appointments",
}

var (
	appointmentTitle    string
	appointmentType     string
	appointmentLocation string
)

var appointmentAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record an appointment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(recordTime)
		if err != nil {
			return err
		}
		stored, err := c.AddAppointment(ctx, model.Appointment{
			Time:     t,
			Type:     appointmentType,
			Title:    appointmentTitle,
			Location: appointmentLocation,
			Notes:    recordNotes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded appointment %q #%d at %s\n", stored.Title, stored.ID, formatWhen(stored.Time))
		return nil
	},
}

var appointmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(recordPeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		appointments := c.ListAppointments(period)
		if len(appointments) == 0 {
			fmt.Println("No appointments recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              TYPE        DONE  TITLE"))
		for _, a := range appointments {
			fmt.Printf("%-11d %-17s %-11s %-5s %s\n",
				a.ID, formatWhen(a.Time), a.Type, mark(a.Completed), a.Title)
		}
		return nil
	},
}

var appointmentDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark an appointment as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		if err := c.MarkAppointmentCompleted(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Marked appointment #%d as completed\n", id)
		return nil
	},
}

// --- journal ---

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Record and list journal entries",
}

var (
	journalTitle       string
	journalCategory    string
	journalDescription string
	journalTags        string
)

var journalAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a journal entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(recordTime)
		if err != nil {
			return err
		}
		j := model.JournalEntry{
			Time:        t,
			Category:    journalCategory,
			Title:       journalTitle,
			Description: journalDescription,
		}
		if journalTags != "" {
			j.Tags = strings.Split(journalTags, ",")
		}
		stored, err := c.AddJournalEntry(ctx, j)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded journal entry %q #%d\n", stored.Title, stored.ID)
		return nil
	},
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(recordPeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		entries := c.ListJournalEntries(period)
		if len(entries) == 0 {
			fmt.Println("No journal entries recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              CATEGORY    TITLE"))
		for _, j := range entries {
			fmt.Printf("%-11d %-17s %-11s %s\n", j.ID, formatWhen(j.Time), j.Category, j.Title)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{measurementAddCmd, temperatureAddCmd, appointmentAddCmd, journalAddCmd} {
		cmd.Flags().StringVar(&recordTime, "time", "", "record time (default now)")
	}
	for _, cmd := range []*cobra.Command{measurementListCmd, temperatureListCmd, appointmentListCmd, journalListCmd} {
		cmd.Flags().StringVar(&recordPeriod, "period", "all", "today, week, month, or all")
	}

	measurementAddCmd.Flags().Float64Var(&measurementWeight, "weight", 0, "weight in kg")
	measurementAddCmd.Flags().Float64Var(&measurementHeight, "height", 0, "height in cm")

	temperatureAddCmd.Flags().Float64Var(&temperatureValue, "value", 0, "temperature in °C")
	temperatureAddCmd.Flags().StringVar(&recordNotes, "notes", "", "free-form notes")

	appointmentAddCmd.Flags().StringVar(&appointmentTitle, "title", "", "appointment title")
	appointmentAddCmd.Flags().StringVar(&appointmentType, "type", model.AppointmentOther, "checkup, vaccine, specialist, or other")
	appointmentAddCmd.Flags().StringVar(&appointmentLocation, "location", "", "appointment location")

	journalAddCmd.Flags().StringVar(&journalTitle, "title", "", "entry title")
	journalAddCmd.Flags().StringVar(&journalCategory, "category", model.JournalNote, "milestone, health, or note")
	journalAddCmd.Flags().StringVar(&journalDescription, "description", "", "entry body")
	journalAddCmd.Flags().StringVar(&journalTags, "tags", "", "comma-separated tags")

	measurementCmd.AddCommand(measurementAddCmd, measurementListCmd)
	temperatureCmd.AddCommand(temperatureAddCmd, temperatureListCmd)
	appointmentCmd.AddCommand(appointmentAddCmd, appointmentListCmd, appointmentDoneCmd)
	journalCmd.AddCommand(journalAddCmd, journalListCmd)
	rootCmd.AddCommand(measurementCmd, temperatureCmd, appointmentCmd, journalCmd)
}
