package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasgonzalez939/babytrack/internal/model"
)

var medicineCmd = &cobra.Command{
	Use:   "medicine",
	Short: "Record doses and manage medicine schedules",
}

var (
	medicineTime     string
	medicineName     string
	medicineDose     string
	medicineInterval float64
	medicineNotes    string
	medicinePeriod   string
	medicineTakenAt  string
)

var medicineAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a medicine",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		t, err := parseTimeFlag(medicineTime)
		if err != nil {
			return err
		}

		stored, err := c.AddMedicine(ctx, model.Medicine{
			Time:          t,
			Name:          medicineName,
			Dose:          medicineDose,
			IntervalHours: medicineInterval,
			Notes:         medicineNotes,
			Active:        medicineInterval > 0,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded medicine %q #%d\n", stored.Name, stored.ID)
		if stored.NextDose != nil {
			fmt.Printf("Next dose at %s\n", formatWhen(*stored.NextDose))
		}
		return nil
	},
}

var medicineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List medicines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		period, err := parsePeriod(medicinePeriod)
		if err != nil {
			return err
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		medicines := c.ListMedicines(period)
		if len(medicines) == 0 {
			fmt.Println("No medicines recorded.")
			return nil
		}
		fmt.Println(headerStyle.Render("ID          TIME              NAME            DOSE      ACTIVE  NEXT DOSE"))
		for _, m := range medicines {
			next := "-"
			if m.NextDose != nil {
				next = formatWhen(*m.NextDose)
			}
			fmt.Printf("%-11d %-17s %-15s %-9s %-7s %s\n",
				m.ID, formatWhen(m.Time), m.Name, m.Dose, mark(m.Active), next)
		}
		return nil
	},
}

var medicineTakenCmd = &cobra.Command{
	Use:   "taken <id>",
	Short: "Record that a scheduled dose was taken",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		takenAt := time.Now()
		if medicineTakenAt != "" {
			if takenAt, err = parseTimeFlag(medicineTakenAt); err != nil {
				return err
			}
		}
		c, err := newController(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		history, err := c.MarkMedicineTaken(ctx, id, takenAt)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded dose of %q at %s\n", history.Name, formatWhen(history.Time))
		return nil
	},
}

var medicineStopCmd = &cobra.Command{
	Use:   "stop <id>",
	Short: "Stop a treatment and clear its reminder",
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
		if err := c.StopMedicineTreatment(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Stopped treatment #%d\n", id)
		return nil
	},
}

var medicineDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a medicine record",
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
		if err := c.DeleteMedicine(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted medicine #%d\n", id)
		return nil
	},
}

func init() {
	medicineAddCmd.Flags().StringVar(&medicineTime, "time", "", "dose time (default now)")
	medicineAddCmd.Flags().StringVar(&medicineName, "name", "", "medicine name")
	medicineAddCmd.Flags().StringVar(&medicineDose, "dose", "", "dose description, e.g. \"2.5 ml\"")
	medicineAddCmd.Flags().Float64Var(&medicineInterval, "interval", 0, "hours between doses (0 = occasional)")
	medicineAddCmd.Flags().StringVar(&medicineNotes, "notes", "", "free-form notes")
	medicineListCmd.Flags().StringVar(&medicinePeriod, "period", "all", "today, week, month, or all")
	medicineTakenCmd.Flags().StringVar(&medicineTakenAt, "at", "", "taken time (default now)")

	medicineCmd.AddCommand(medicineAddCmd, medicineListCmd, medicineTakenCmd, medicineStopCmd, medicineDeleteCmd)
	rootCmd.AddCommand(medicineCmd)
}
