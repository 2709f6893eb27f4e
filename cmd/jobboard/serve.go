package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonathan/jobboard/internal/applications"
	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/memstore"
	"github.com/jonathan/jobboard/internal/notify"
	"github.com/jonathan/jobboard/internal/screening"
	"github.com/jonathan/jobboard/internal/server"
	"github.com/jonathan/jobboard/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

const notifyDrainTimeout = 10 * time.Second

var (
	servePort     int
	serveInMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the job board REST endpoints.

With --in-memory the server runs without PostgreSQL; data is lost on exit.
SEED_ADMIN_EMAIL and SEED_ADMIN_PASSWORD create an admin at startup in that mode.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "Use the in-memory store instead of PostgreSQL")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	ctx := cmd.Context()

	var store server.Store
	if serveInMemory {
		mem := memstore.New()
		if err := seedAdminFromEnv(ctx, mem, passwordConfig); err != nil {
			return err
		}
		log.Println("[serve] using in-memory store")
		store = mem
	} else {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		store = database
	}

	dispatcher := notify.New(notify.Config{
		Endpoints: cfg.Webhooks(applications.EventDecision, screening.EventNoteSaved),
		Workers:   cfg.WebhookWorkers,
		QueueSize: cfg.WebhookQueueSize,
	})
	notifyCtx, cancelNotify := context.WithCancel(context.Background())
	defer cancelNotify()
	notifyDone := make(chan error, 1)
	go func() { notifyDone <- dispatcher.Run(notifyCtx) }()

	srv, err := server.New(server.Options{
		Port:      cfg.Port,
		Store:     store,
		Notifier:  dispatcher,
		Location:  cfg.Location(),
		JWT:       jwtConfig,
		Passwords: passwordConfig,
		RateLimit: ratelimit.LoadConfig(),
	})
	if err != nil {
		dispatcher.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	serveErr := srv.Start()

	// Deliver what is already queued before exiting.
	dispatcher.Close()
	select {
	case err := <-notifyDone:
		if err != nil {
			log.Printf("[notify] dispatcher stopped: %v", err)
		}
	case <-time.After(notifyDrainTimeout):
		log.Println("[notify] drain timed out; dropping remaining events")
		cancelNotify()
	}

	return serveErr
}

// seedAdminFromEnv creates the admin named by SEED_ADMIN_EMAIL when set.
func seedAdminFromEnv(ctx context.Context, store server.AdminStore, passwords *config.PasswordConfig) error {
	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		return nil
	}
	admin, err := server.NewAdminService(store, passwords).Seed(ctx, email, os.Getenv("SEED_ADMIN_NAME"), os.Getenv("SEED_ADMIN_PASSWORD"))
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Printf("[serve] seeded admin %s", admin.Email)
	return nil
}
