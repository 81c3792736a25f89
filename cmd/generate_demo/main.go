// Command generate_demo creates a demo database with sample library data.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/books"
	"github.com/openshelf/openshelf/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

const (
	demoUserEmail    = "demo@openshelf.local"
	demoUserPassword = "demo-password"
)

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	user := createDemoUser(db)
	authorsByName := createAuthors(db)
	booksByTitle := createBooks(db, authorsByName)
	membersByName := createMembers(db)
	createLoans(db, user, booksByTitle, membersByName)

	log.Println("Demo database generated successfully!")
	log.Printf("Log in with %s / %s", demoUserEmail, demoUserPassword)
}

func createDemoUser(db *database.Database) *entities.User {
	cfg := config.NewConfig()
	service := auth.NewService(db.DB, cfg.Auth)

	user, err := service.CreateUser("Demo Librarian", demoUserEmail, demoUserPassword)
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}
	return user
}

func createAuthors(db *database.Database) map[string]entities.Author {
	seed := []entities.Author{
		{Name: "Marcus Aurelius", Bio: "Roman emperor and Stoic philosopher, author of the Meditations."},
		{Name: "Mary Shelley", Bio: "English novelist best known for Frankenstein."},
		{Name: "Franz Kafka", Bio: "Bohemian novelist whose work explores alienation and bureaucracy."},
		{Name: "Jane Austen", Bio: "English novelist known for social commentary and irony."},
	}

	authors := make(map[string]entities.Author)
	for i := range seed {
		if err := db.DB.Create(&seed[i]).Error; err != nil {
			log.Printf("Failed to create author %s: %v", seed[i].Name, err)
			continue
		}
		authors[seed[i].Name] = seed[i]
	}
	return authors
}

// BookSeed pairs a book with its author names for deferred linking.
type BookSeed struct {
	Book        entities.Book
	AuthorNames []string
}

func createBooks(db *database.Database, authors map[string]entities.Author) map[string]entities.Book {
	seed := []BookSeed{
		{
			AuthorNames: []string{"Marcus Aurelius"},
			Book: entities.Book{
				Title:       "Meditations",
				Description: "Personal writings on Stoic philosophy and self-discipline.",
				PublishedAt: entities.NewDate(1902, time.January, 1),
			},
		},
		{
			AuthorNames: []string{"Mary Shelley"},
			Book: entities.Book{
				Title:       "Frankenstein",
				Description: "A scientist creates a sapient creature in an unorthodox experiment.",
				PublishedAt: entities.NewDate(1818, time.January, 1),
			},
		},
		{
			AuthorNames: []string{"Franz Kafka"},
			Book: entities.Book{
				Title:       "The Trial",
				Description: "Josef K. is prosecuted by a remote, inaccessible authority.",
				PublishedAt: entities.NewDate(1925, time.April, 26),
			},
		},
		{
			AuthorNames: []string{"Jane Austen"},
			Book: entities.Book{
				Title:       "Pride and Prejudice",
				Description: "A novel of manners set in Georgian England.",
				PublishedAt: entities.NewDate(1813, time.January, 28),
			},
		},
	}

	repo := books.NewRepository(db.DB)

	result := make(map[string]entities.Book)
	for i := range seed {
		for _, name := range seed[i].AuthorNames {
			if author, ok := authors[name]; ok {
				seed[i].Book.Authors = append(seed[i].Book.Authors, author)
			}
		}
		if err := db.DB.Create(&seed[i].Book).Error; err != nil {
			log.Printf("Failed to create book %s: %v", seed[i].Book.Title, err)
			continue
		}
		log.Printf("Saved: %s (%d authors)", seed[i].Book.Title, len(seed[i].Book.Authors))
		result[seed[i].Book.Title] = seed[i].Book
	}

	// Sanity check the repository sees everything we wrote
	if all, err := repo.ListBooks(); err == nil {
		log.Printf("Demo catalog holds %d books", len(all))
	}

	return result
}

func createMembers(db *database.Database) map[string]entities.Member {
	seed := []entities.Member{
		{Name: "Alice Chapman", Email: "alice@example.com", Phone: "+1-555-0101"},
		{Name: "Bruno Keller", Email: "bruno@example.com", Phone: "+1-555-0102"},
		{Name: "Carla Mendes", Email: "carla@example.com", Phone: "+1-555-0103"},
	}

	members := make(map[string]entities.Member)
	for i := range seed {
		if err := db.DB.Create(&seed[i]).Error; err != nil {
			log.Printf("Failed to create member %s: %v", seed[i].Name, err)
			continue
		}
		members[seed[i].Name] = seed[i]
	}
	return members
}

func createLoans(db *database.Database, user *entities.User, booksByTitle map[string]entities.Book, membersByName map[string]entities.Member) {
	today := entities.Today()
	lastMonth := entities.Date{Time: time.Now().AddDate(0, -1, 0)}
	lastWeek := entities.Date{Time: time.Now().AddDate(0, 0, -7)}
	nextWeek := entities.Date{Time: time.Now().AddDate(0, 0, 7)}

	alice := membersByName["Alice Chapman"]
	bruno := membersByName["Bruno Keller"]

	type loanSeed struct {
		loan  entities.Loan
		items []entities.LoanItem
	}

	seed := []loanSeed{
		// Active loan with an item due next week
		{
			loan: entities.Loan{
				UserID:   user.ID,
				MemberID: &alice.ID,
				BookID:   booksByTitle["The Trial"].ID,
				LoanDate: lastWeek,
				Status:   entities.LoanStatusOngoing,
			},
			items: []entities.LoanItem{
				{BookID: booksByTitle["The Trial"].ID, DueDate: nextWeek, Status: entities.LoanItemStatusBorrowed},
			},
		},
		// Overdue loan: the item was due a week ago and never returned
		{
			loan: entities.Loan{
				UserID:   user.ID,
				MemberID: &bruno.ID,
				BookID:   booksByTitle["Frankenstein"].ID,
				LoanDate: lastMonth,
				Status:   entities.LoanStatusOngoing,
			},
			items: []entities.LoanItem{
				{BookID: booksByTitle["Frankenstein"].ID, DueDate: lastWeek, Status: entities.LoanItemStatusBorrowed},
			},
		},
		// Completed loan, everything returned
		{
			loan: entities.Loan{
				UserID:     user.ID,
				BookID:     booksByTitle["Meditations"].ID,
				LoanDate:   lastMonth,
				ReturnDate: &today,
				Status:     entities.LoanStatusCompleted,
			},
			items: []entities.LoanItem{
				{BookID: booksByTitle["Meditations"].ID, DueDate: lastWeek, ReturnDate: &today, Status: entities.LoanItemStatusReturned},
			},
		},
	}

	for i := range seed {
		if err := db.DB.Create(&seed[i].loan).Error; err != nil {
			log.Printf("Failed to create loan: %v", err)
			continue
		}
		for j := range seed[i].items {
			seed[i].items[j].LoanID = seed[i].loan.ID
			if err := db.DB.Create(&seed[i].items[j]).Error; err != nil {
				log.Printf("Failed to create loan item: %v", err)
			}
		}
		log.Printf("Saved loan %d (%s, %d items)", seed[i].loan.ID, seed[i].loan.Status, len(seed[i].items))
	}
}
