package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
)

// CreateUserCommand creates a user account from the command line, useful
// for bootstrapping an install without going through /register.
type CreateUserCommand struct {
	DatabasePath string
	Name         string
	Email        string
	Password     string
	WithToken    bool
}

// NewCreateUserCommand creates a new CreateUserCommand
func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

// ParseFlags parses command line flags
func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database")
	fs.StringVar(&cmd.Name, "name", "", "Display name for the new user")
	fs.StringVar(&cmd.Email, "email", "", "Email address (used for login, must be unique)")
	fs.StringVar(&cmd.Password, "password", "", "Password (min 8 characters)")
	fs.BoolVar(&cmd.WithToken, "with-token", false, "Also generate an API token and print it")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s create-user -name \"Jane Doe\" -email jane@example.com -password secret123\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s create-user -email jane@example.com -name Jane -password secret123 -with-token\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("-name, -email and -password are required")
	}
	if len(cmd.Password) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}

	return nil
}

// Run executes the create-user command
func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser(cmd.Name, cmd.Email, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %d (%s <%s>)\n", user.ID, user.Name, user.Email)

	if cmd.WithToken {
		token, err := service.GenerateToken(user.ID)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Printf("API token (shown once, store it safely): %s\n", token)
	}

	return nil
}
