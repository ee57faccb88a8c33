// Package cli implements the command line subcommands.
package cli

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/openshelf/lendhub/internal/auth"
	"github.com/openshelf/lendhub/internal/config"
	"github.com/openshelf/lendhub/internal/database"
)

// CreateUserCommand creates an account directly in the database. Mainly used
// to bootstrap the first staff account on a fresh install.
type CreateUserCommand struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Staff     bool
	DBPath    string
}

// NewCreateUserCommand creates a new CreateUserCommand.
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password (prompted interactively if omitted)")
	fs.StringVar(&cmd.FirstName, "first-name", "", "First name")
	fs.StringVar(&cmd.LastName, "last-name", "", "Last name")
	fs.BoolVar(&cmd.Staff, "staff", false, "Grant staff (dashboard) access")
	fs.StringVar(&cmd.DBPath, "db", "", "Path to the database file (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create an account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -username alice -email alice@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-user -username admin -email admin@example.com -staff\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" {
		fs.Usage()
		return fmt.Errorf("username and email are required")
	}

	return nil
}

// Run executes the create-user command.
func (cmd *CreateUserCommand) Run() error {
	cfg := config.NewConfig()

	dbPath := cmd.DBPath
	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	if cmd.Password == "" {
		password, err := promptPassword()
		if err != nil {
			return err
		}
		cmd.Password = password
	}

	db, err := database.NewDatabase(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.Register(auth.RegisterInput{
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  cmd.Password,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		IsStaff:   cmd.Staff,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	role := "member"
	if user.IsStaff {
		role = "staff"
	}
	fmt.Printf("Created %s account %q (id %d)\n", role, user.Username, user.ID)

	return nil
}

// promptPassword reads the password twice without echoing it.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}

	return string(first), nil
}
