package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/migrate"
)

var migrationCmd = &cobra.Command{
	Use:   "migration",
	Short: "Inspect or roll back the flat-store migration",
}

var migrationStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the migration state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		m := c.Migrator()
		if m == nil {
			fmt.Println("Record store unavailable; migration is pending.")
			return nil
		}
		st, err := m.GetStatus()
		if err != nil {
			return err
		}
		fmt.Printf("Migrated:      %v\n", st.Migrated)
		fmt.Printf("Flat data:     %v\n", st.HasFlatData)
		fmt.Printf("Backup:        %v\n", st.HasBackup)
		if st.BackupDate != nil {
			fmt.Printf("Backup taken:  %s\n", formatWhen(*st.BackupDate))
		}
		return nil
	},
}

var migrationRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the flat-store migration and report the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		m := c.Migrator()
		if m == nil {
			return errors.New("record store unavailable; cannot migrate")
		}
		// The controller already attempted this at startup; running it
		// again reports the outcome explicitly.
		result := m.Migrate(ctx)
		fmt.Printf("Status: %s\n", result.Status)
		for collection, n := range result.Counts {
			fmt.Printf("  %s: %d\n", collection, n)
		}
		for _, e := range result.Errors {
			fmt.Printf("  error: %s\n", e)
		}
		return nil
	},
}

var migrationRollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore the flat store from the migration backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		m := c.Migrator()
		if m == nil {
			return errors.New("record store unavailable; nothing to roll back")
		}
		if err := m.RestoreFromBackup(); err != nil {
			if errors.Is(err, migrate.ErrNoBackup) {
				return errors.New("no migration backup exists")
			}
			return err
		}
		fmt.Println("Flat store restored from backup. Restart to re-run the migration.")
		return nil
	},
}

func init() {
	migrationCmd.AddCommand(migrationStatusCmd, migrationRunCmd, migrationRollbackCmd)
	rootCmd.AddCommand(migrationCmd)
}
