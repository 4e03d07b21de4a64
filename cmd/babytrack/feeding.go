package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

var feedingCmd = &cobra.Command{
	Use:   "feeding",
	Short: "Record and list feedings",
}

var (
	feedingTime     string
	feedingType     string
	feedingAmount   int
	feedingDuration int
	feedingInterval float64
	feedingPeriod   string
)

var feedingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a feeding",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(feedingTime)
		if err != nil {
			return err
		}

		f := model.Feeding{Time: t, Type: feedingType, NextInterval: feedingInterval}
		switch feedingType {
		case model.FeedingBottle:
			f.Amount = &feedingAmount
		case model.FeedingBreast:
			f.Duration = &feedingDuration
		}

		stored, err := c.AddFeeding(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s feeding #%d at %s\n", stored.Type, stored.ID, formatWhen(stored.Time))
		return nil
	},
}

var feedingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(feedingPeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		feedings := c.ListFeedings(period)
		if len(feedings) == 0 {
			fmt.Println("No feedings recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              TYPE    AMOUNT/DURATION"))
		for _, f := range feedings {
			detail := ""
			if f.Amount != nil {
				detail = fmt.Sprintf("%d ml", *f.Amount)
			} else if f.Duration != nil {
				detail = fmt.Sprintf("%d min", *f.Duration)
			}
			fmt.Printf("%-11d %-17s %-7s %s\n", f.ID, formatWhen(f.Time), f.Type, detail)
		}
		return nil
	},
}

var feedingDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a feeding",
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
		if err := c.DeleteFeeding(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted feeding #%d\n", id)
		return nil
	},
}

func init() {
	feedingAddCmd.Flags().StringVar(&feedingTime, "time", "", "feeding time (default now)")
	feedingAddCmd.Flags().StringVar(&feedingType, "type", model.FeedingBottle, "bottle or breast")
	feedingAddCmd.Flags().IntVar(&feedingAmount, "amount", 0, "amount in ml (bottle)")
	feedingAddCmd.Flags().IntVar(&feedingDuration, "duration", 0, "duration in minutes (breast)")
	feedingAddCmd.Flags().Float64Var(&feedingInterval, "interval", 0, "hours until next feeding (default from settings)")
	feedingListCmd.Flags().StringVar(&feedingPeriod, "period", "all", "today, week, month, or all")

	feedingCmd.AddCommand(feedingAddCmd, feedingListCmd, feedingDeleteCmd)
	rootCmd.AddCommand(feedingCmd)
}
