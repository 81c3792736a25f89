package loans

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

func setupRepo(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "loans_test.db")
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db.DB), db.DB
}

func seedLoan(t *testing.T, db *gorm.DB, userID uint) *entities.Loan {
	t.Helper()

	book := entities.Book{Title: "The Trial", PublishedAt: entities.NewDate(1925, time.April, 26)}
	require.NoError(t, db.Create(&book).Error)

	loan := entities.Loan{
		UserID:   userID,
		BookID:   book.ID,
		LoanDate: entities.NewDate(2026, time.January, 10),
		Status:   entities.LoanStatusOngoing,
	}
	require.NoError(t, db.Create(&loan).Error)
	return &loan
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *entities.User {
	t.Helper()
	user := entities.User{Name: name, Email: email}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestListLoansForUser_ScopedToOwner(t *testing.T) {
	repo, db := setupRepo(t)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")

	seedLoan(t, db, alice.ID)
	seedLoan(t, db, alice.ID)
	seedLoan(t, db, bob.ID)

	loans, err := repo.ListLoansForUser(alice.ID)
	require.NoError(t, err)
	assert.Len(t, loans, 2)
	for _, loan := range loans {
		assert.Equal(t, alice.ID, loan.UserID)
		require.NotNil(t, loan.User, "user should be eager-loaded")
		require.NotNil(t, loan.Book, "book should be eager-loaded")
		assert.Equal(t, "Alice", loan.User.Name)
	}
}

func TestGetLoanByID_ScopedToOwner(t *testing.T) {
	repo, db := setupRepo(t)

	alice := seedUser(t, db, "Alice", "alice@example.com")
	bob := seedUser(t, db, "Bob", "bob@example.com")
	loan := seedLoan(t, db, alice.ID)

	found, err := repo.GetLoanByID(loan.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.UserID)

	// Another user's lookup reads like a missing record
	_, err = repo.GetLoanByID(loan.ID, bob.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestCompleteLoan_TerminalAndIdempotent(t *testing.T) {
	repo, db := setupRepo(t)

	user := seedUser(t, db, "Alice", "alice@example.com")
	loan := seedLoan(t, db, user.ID)

	require.NoError(t, repo.CompleteLoan(loan))
	assert.Equal(t, entities.LoanStatusCompleted, loan.Status)

	reloaded, err := repo.GetLoanByID(loan.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.LoanStatusCompleted, reloaded.Status)

	// Completing again leaves the loan unchanged
	require.NoError(t, repo.CompleteLoan(reloaded))
	assert.Equal(t, entities.LoanStatusCompleted, reloaded.Status)
}

func TestDeleteLoan_CascadesToItems(t *testing.T) {
	repo, db := setupRepo(t)

	user := seedUser(t, db, "Alice", "alice@example.com")
	loan := seedLoan(t, db, user.ID)

	item := entities.LoanItem{
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		DueDate: entities.NewDate(2026, time.February, 1),
		Status:  entities.LoanItemStatusBorrowed,
	}
	require.NoError(t, repo.CreateLoanItem(&item))

	require.NoError(t, repo.DeleteLoan(loan))

	_, err := repo.GetLoanByID(loan.ID, user.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.GetLoanItemByID(item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound), "items should be deleted with their loan")
}

func TestReturnLoanItem(t *testing.T) {
	repo, db := setupRepo(t)

	user := seedUser(t, db, "Alice", "alice@example.com")
	loan := seedLoan(t, db, user.ID)

	item := entities.LoanItem{
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		DueDate: entities.NewDate(2026, time.February, 1),
		Status:  entities.LoanItemStatusBorrowed,
	}
	require.NoError(t, repo.CreateLoanItem(&item))

	require.NoError(t, repo.ReturnLoanItem(&item))
	assert.Equal(t, entities.LoanItemStatusReturned, item.Status)
	require.NotNil(t, item.ReturnDate)
	assert.Equal(t, entities.Today().String(), item.ReturnDate.String())

	firstReturn := *item.ReturnDate

	// Returning again is a no-op that keeps the original date
	require.NoError(t, repo.ReturnLoanItem(&item))
	assert.Equal(t, entities.LoanItemStatusReturned, item.Status)
	assert.Equal(t, firstReturn.String(), item.ReturnDate.String())

	reloaded, err := repo.GetLoanItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.LoanItemStatusReturned, reloaded.Status)
	require.NotNil(t, reloaded.ReturnDate)
	assert.Equal(t, firstReturn.String(), reloaded.ReturnDate.String())
}

func TestListOverdueItems(t *testing.T) {
	repo, db := setupRepo(t)

	user := seedUser(t, db, "Alice", "alice@example.com")
	loan := seedLoan(t, db, user.ID)

	overdue := entities.LoanItem{
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		DueDate: entities.NewDate(2026, time.January, 15),
		Status:  entities.LoanItemStatusBorrowed,
	}
	require.NoError(t, repo.CreateLoanItem(&overdue))

	notDue := entities.LoanItem{
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		DueDate: entities.NewDate(2026, time.March, 15),
		Status:  entities.LoanItemStatusBorrowed,
	}
	require.NoError(t, repo.CreateLoanItem(&notDue))

	returned := entities.LoanItem{
		LoanID:  loan.ID,
		BookID:  loan.BookID,
		DueDate: entities.NewDate(2026, time.January, 1),
		Status:  entities.LoanItemStatusBorrowed,
	}
	require.NoError(t, repo.CreateLoanItem(&returned))
	require.NoError(t, repo.ReturnLoanItem(&returned))

	items, err := repo.ListOverdueItems(entities.NewDate(2026, time.February, 1))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, overdue.ID, items[0].ID)
	require.NotNil(t, items[0].Loan, "loan should be eager-loaded")
	require.NotNil(t, items[0].Loan.User, "loan user should be eager-loaded")
	require.NotNil(t, items[0].Book, "book should be eager-loaded")
}

func TestLoanExists(t *testing.T) {
	repo, db := setupRepo(t)

	user := seedUser(t, db, "Alice", "alice@example.com")
	loan := seedLoan(t, db, user.ID)

	exists, err := repo.LoanExists(loan.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.LoanExists(999)
	require.NoError(t, err)
	assert.False(t, exists)
}
