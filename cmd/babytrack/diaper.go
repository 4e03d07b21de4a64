package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

var diaperCmd = &cobra.Command{
	Use:   "diaper",
	Short: "Record and list diaper changes",
}

var (
	diaperTime   string
	diaperPee    bool
	diaperPoop   bool
	diaperLevel  int
	diaperNotes  string
	diaperPeriod string
)

var diaperAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a diaper change",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(diaperTime)
		if err != nil {
			return err
		}

		stored, err := c.AddDiaper(ctx, model.Diaper{
			Time:    t,
			HasPee:  diaperPee,
			HasPoop: diaperPoop,
			Level:   diaperLevel,
			Notes:   diaperNotes,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded diaper change #%d at %s\n", stored.ID, formatWhen(stored.Time))
		return nil
	},
}

var diaperListCmd = &cobra.Command{
	Use:   "list",
	Short: "List diaper changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(diaperPeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		diapers := c.ListDiapers(period)
		if len(diapers) == 0 {
			fmt.Println("No diaper changes recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              PEE  POOP  LEVEL  NOTES"))
		for _, d := range diapers {
			fmt.Printf("%-11d %-17s %-4s %-5s %-6d %s\n",
				d.ID, formatWhen(d.Time), mark(d.HasPee), mark(d.HasPoop), d.Level, d.Notes)
		}
		return nil
	},
}

var diaperDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a diaper change",
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
		if err := c.DeleteDiaper(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted diaper change #%d\n", id)
		return nil
	},
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return "-"
}

func init() {
	diaperAddCmd.Flags().StringVar(&diaperTime, "time", "", "change time (default now)")
	diaperAddCmd.Flags().BoolVar(&diaperPee, "pee", false, "diaper had pee")
	diaperAddCmd.Flags().BoolVar(&diaperPoop, "poop", false, "diaper had poop")
	diaperAddCmd.Flags().IntVar(&diaperLevel, "level", 1, "fullness level 1-3")
	diaperAddCmd.Flags().StringVar(&diaperNotes, "notes", "", "free-form notes")
	diaperListCmd.Flags().StringVar(&diaperPeriod, "period", "all", "today, week, month, or all")

	diaperCmd.AddCommand(diaperAddCmd, diaperListCmd, diaperDeleteCmd)
	rootCmd.AddCommand(diaperCmd)
}
