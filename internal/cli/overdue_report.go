package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/loans"
	"github.com/openshelf/openshelf/internal/entities"
)

// OverdueReportCommand prints borrowed loan items past their due date.
type OverdueReportCommand struct {
	DatabasePath string
	AsOf         string
}

// NewOverdueReportCommand creates a new OverdueReportCommand
func NewOverdueReportCommand() *OverdueReportCommand {
	return &OverdueReportCommand{}
}

// ParseFlags parses command line flags
func (cmd *OverdueReportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("overdue-report", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database")
	fs.StringVar(&cmd.AsOf, "as-of", "", "Report date in YYYY-MM-DD format (default: today)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s overdue-report [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List borrowed loan items whose due date has passed.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s overdue-report\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s overdue-report -as-of 2026-01-15\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the overdue-report command
func (cmd *OverdueReportCommand) Run() error {
	asOf := entities.Today()
	if cmd.AsOf != "" {
		parsed, err := entities.ParseDate(cmd.AsOf)
		if err != nil {
			return fmt.Errorf("invalid -as-of date %q: %w", cmd.AsOf, err)
		}
		asOf = parsed
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	repo := loans.NewRepository(db.DB)
	items, err := repo.ListOverdueItems(asOf)
	if err != nil {
		return fmt.Errorf("failed to list overdue items: %w", err)
	}

	if len(items) == 0 {
		fmt.Printf("No overdue items as of %s\n", asOf)
		return nil
	}

	fmt.Printf("Overdue items as of %s:\n", asOf)
	for _, item := range items {
		title := "(unknown book)"
		if item.Book != nil {
			title = item.Book.Title
		}
		borrower := ""
		if item.Loan != nil && item.Loan.User != nil {
			borrower = " for " + item.Loan.User.Name
		}
		fmt.Printf("  item %d: %q due %s (loan %d%s)\n", item.ID, title, item.DueDate, item.LoanID, borrower)
	}
	fmt.Printf("%d overdue items\n", len(items))

	return nil
}
