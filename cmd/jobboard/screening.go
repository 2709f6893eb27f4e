package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/observability"
	"github.com/jonathan/jobboard/internal/screening"
	"github.com/spf13/cobra"
)

var screeningCmd = &cobra.Command{
	Use:   "screening",
	Short: "Screening review utilities",
}

var screeningSummaryCmd = &cobra.Command{
	Use:   "summary <application-id>",
	Short: "Print per-stage scores and aggregates for an application",
	Args:  cobra.ExactArgs(1),
	RunE:  runScreeningSummary,
}

func init() {
	screeningCmd.AddCommand(screeningSummaryCmd)
	rootCmd.AddCommand(screeningCmd)
}

func runScreeningSummary(cmd *cobra.Command, args []string) error {
	applicationID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid application id: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := connectDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	rubric, err := screening.DefaultRubric()
	if err != nil {
		return err
	}
	summary, err := screening.NewService(database, nil, rubric).Summary(cmd.Context(), applicationID)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintScreeningSummary(summary)
	return nil
}
