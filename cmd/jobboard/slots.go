package main

import (
	"github.com/jonathan/jobboard/internal/observability"
	"github.com/jonathan/jobboard/internal/scheduling"
	"github.com/spf13/cobra"
)

var (
	slotsDate    string
	slotsStart   string
	slotsEnd     string
	slotsMinutes int
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Interview slot utilities",
}

var slotsPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the slots a window would generate without saving them",
	RunE:  runSlotsPreview,
}

func init() {
	slotsPreviewCmd.Flags().StringVar(&slotsDate, "date", "", "Date (YYYY-MM-DD)")
	slotsPreviewCmd.Flags().StringVar(&slotsStart, "start", "", "Window start (HH:MM)")
	slotsPreviewCmd.Flags().StringVar(&slotsEnd, "end", "", "Window end (HH:MM)")
	slotsPreviewCmd.Flags().IntVar(&slotsMinutes, "minutes", scheduling.DefaultSlotMinutes, "Slot length in minutes")
	_ = slotsPreviewCmd.MarkFlagRequired("date")
	_ = slotsPreviewCmd.MarkFlagRequired("start")
	_ = slotsPreviewCmd.MarkFlagRequired("end")

	slotsCmd.AddCommand(slotsPreviewCmd)
	rootCmd.AddCommand(slotsCmd)
}

func runSlotsPreview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	minutes := slotsMinutes
	window, intervals, err := scheduling.GenerateSlots(slotsDate, slotsStart, slotsEnd, &minutes, cfg.Location())
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSlotPlan(window, intervals)
	return nil
}
