package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

var clearAll bool

var clearCmd = &cobra.Command{
	Use:   "clear [collection]",
	Short: "Wipe one collection, or all data with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !clearAll && len(args) == 0 {
			return fmt.Errorf("name a collection (%s) or pass --all", strings.Join(model.Collections, ", "))
		}

		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		if clearAll {
			if err := c.ClearAll(ctx); err != nil {
				return err
			}
			fmt.Println("Cleared all collections.")
			return nil
		}
		if err := c.Clear(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Cleared %s.\n", args[0])
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "wipe every collection")
	rootCmd.AddCommand(clearCmd)
}
