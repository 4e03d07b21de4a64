package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/portability"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all records to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()

		if err := portability.Export(c, f); err != nil {
			return err
		}
		fmt.Printf("Exported records to %s\n", args[0])
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import records from a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		result, err := portability.Import(ctx, c, f)
		if err != nil {
			return err
		}
		total := 0
		for recordType, n := range result.Imported {
			fmt.Printf("  %s: %d\n", recordType, n)
			total += n
		}
		fmt.Printf("Imported %d records\n", total)
		if len(result.Errors) > 0 {
			fmt.Fprintf(os.Stderr, "%d rows skipped:\n", len(result.Errors))
			for _, e := range result.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", e)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
