// Package cli implements the console's maintenance commands: seeding the
// durable identity slots from the terminal and forcing a snapshot reload.
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
	"github.com/libradesk/libradesk/internal/session"
)

// LoginCommand exchanges credentials with the remote store and stores the
// resulting identity in the durable slots, so the server starts already
// signed in. Useful for headless deployments.
type LoginCommand struct {
	Username     string
	Password     string
	DatabasePath string
	RemoteURL    string
	Timeout      time.Duration
}

func NewLoginCommand() *LoginCommand {
	return &LoginCommand{}
}

// ParseFlags parses command line flags
func (cmd *LoginCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)

	cfg := config.NewConfig()
	fs.StringVar(&cmd.Username, "username", "", "Staff account username (required)")
	fs.StringVar(&cmd.Password, "password", "", "Staff account password (required)")
	fs.StringVar(&cmd.DatabasePath, "db", cfg.Database.Path, "Path to the local state database")
	fs.StringVar(&cmd.RemoteURL, "remote", cfg.Remote.BaseURL, "Remote catalog service URL")
	fs.DurationVar(&cmd.Timeout, "timeout", cfg.Remote.Timeout, "Request timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s login [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Sign in to the remote catalog service and store the identity locally.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s login -username admin -password secret\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("username and password are required")
	}
	return nil
}

// Run executes the login command
func (cmd *LoginCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	sess := session.New(settings.NewRepository(db.DB))
	client := api.NewClient(cmd.RemoteURL, cmd.Timeout, sess)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	principal, err := sess.Login(ctx, client, api.Credentials{
		Username: cmd.Username,
		Password: cmd.Password,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Signed in as %s (%s)\n", principal.Username, principal.Role)
	return nil
}
