package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/libradesk/libradesk/internal/api"
	"github.com/libradesk/libradesk/internal/config"
	"github.com/libradesk/libradesk/internal/database"
	"github.com/libradesk/libradesk/internal/database/settings"
	"github.com/libradesk/libradesk/internal/database/snapshot"
	"github.com/libradesk/libradesk/internal/refresh"
	"github.com/libradesk/libradesk/internal/session"
)

// RefreshCommand runs a one-shot snapshot reload: the full catalog and
// ledger are fetched from the remote store and replace the local copy.
// Requires a stored identity (see the login command).
type RefreshCommand struct {
	DatabasePath string
	RemoteURL    string
	Timeout      time.Duration
}

func NewRefreshCommand() *RefreshCommand {
	return &RefreshCommand{}
}

// ParseFlags parses command line flags
func (cmd *RefreshCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)

	cfg := config.NewConfig()
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the local state database")
	fs.StringVar(&cmd.RemoteURL, "remote", cfg.Remote.BaseURL, "Remote catalog service URL")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Overall refresh timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s refresh [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reload the local snapshot of the remote catalog and ledger.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

// Run executes the refresh command
func (cmd *RefreshCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	settingsRepo := settings.NewRepository(db.DB)
	sess := session.New(settingsRepo)
	if !sess.Authenticated() {
		return fmt.Errorf("no stored identity; run '%s login' first", os.Args[0])
	}

	client := api.NewClient(cmd.RemoteURL, 0, sess)
	svc := refresh.NewService(client, snapshot.NewRepository(db.DB), settingsRepo)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	if err := svc.All(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Println("Snapshot refreshed")
	return nil
}
