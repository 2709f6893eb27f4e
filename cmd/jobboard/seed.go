package main

import (
	"fmt"
	"os"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/listings"
	"github.com/jonathan/jobboard/internal/memstore"
	"github.com/jonathan/jobboard/internal/observability"
	"github.com/jonathan/jobboard/internal/server"
	"github.com/spf13/cobra"
)

var seedDryRun bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load jobs or an admin account",
}

var seedJobsCmd = &cobra.Command{
	Use:   "jobs <file>",
	Short: "Upsert jobs from a JSON seed file",
	Long:  "Validate a JSON array of jobs against the jobs schema and upsert each one by slug.",
	Args:  cobra.ExactArgs(1),
	RunE:  runSeedJobs,
}

var seedAdminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create or update the admin from SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD",
	RunE:  runSeedAdmin,
}

func init() {
	seedJobsCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Validate the file without touching the database")
	seedCmd.AddCommand(seedJobsCmd, seedAdminCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedJobs(cmd *cobra.Command, args []string) error {
	document, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var store listings.Store
	if seedDryRun {
		store = memstore.New()
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, err := connectDB(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		store = database
	}

	summary, err := listings.NewService(store).Import(cmd.Context(), document)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintImportSummary(summary.Created, summary.Updated)
	return nil
}

func runSeedAdmin(cmd *cobra.Command, _ []string) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return fmt.Errorf("SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD environment variables are required")
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
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

	admin, err := server.NewAdminService(database, passwords).Seed(cmd.Context(), email, os.Getenv("SEED_ADMIN_NAME"), password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Admin ready: %s (%s)\n", admin.Email, admin.Name)
	return nil
}
