package cli

import (
	"time"

	"github.com/rcliao/bmicalc/internal/model"
	"github.com/rcliao/bmicalc/internal/session"
	"github.com/rcliao/bmicalc/internal/units"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate BMI once",
		Long: `Calculate BMI from height and weight.

Metric:   bmicalc calc --height 175 --weight 70,5
Imperial: bmicalc calc -u imperial --feet 5 --inches 9 --pounds 154`,
		Run: runCalc,
	}

	cmd.Flags().StringP("units", "u", "", "Unit system: metric or imperial (default from config)")
	cmd.Flags().String("height", "", "Height in cm (metric)")
	cmd.Flags().String("weight", "", "Weight in kg (metric)")
	cmd.Flags().String("feet", "", "Height, feet part (imperial)")
	cmd.Flags().String("inches", "", "Height, inches part (imperial, optional)")
	cmd.Flags().String("pounds", "", "Weight in lbs (imperial)")

	RootCmd.AddCommand(cmd)
}

func runCalc(cmd *cobra.Command, args []string) {
	unitsStr, _ := cmd.Flags().GetString("units")

	system := cfg.UnitSystem()
	if unitsStr != "" {
		u, err := model.ParseUnitSystem(unitsStr)
		if err != nil {
			exitErr("calc", err)
		}
		system = u
	}

	s := session.New(system, cfg.Evaluator())
	for _, f := range units.Fields(system) {
		text, _ := cmd.Flags().GetString(string(f))
		var err error
		if s, err = s.SetField(f, text); err != nil {
			exitErr("calc", err)
		}
	}

	s, err := s.Calculate(time.Now())
	if err != nil {
		logger.Printf("rejected: %v", err)
		exitErr("calc", err)
	}

	r, _ := s.Result()
	e, _ := s.History().Newest()
	logger.Printf("calculated bmi=%.1f category=%q system=%s", r.Value, r.Category, system)
	renderResult(cmd.OutOrStdout(), cfg.Format, r, e)
}
