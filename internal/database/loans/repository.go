// Package loans owns persistence for the loan lifecycle: loans, their
// items, the explicit cascade on delete and the status transitions.
//
// Loan status moves ongoing -> completed and never back. LoanItem status
// moves borrowed -> returned; the return transition is the only write
// that stamps return_date from server time.
package loans

import (
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles loan and loan item database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// --- Loans ---

// ListLoansForUser returns the loans owned by a user, with user and book
// eager-loaded. Listing is always scoped to the owner.
func (r *Repository) ListLoansForUser(userID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("user_id = ?", userID).
		Find(&loans).Error
	return loans, err
}

// CreateLoan inserts a new loan.
func (r *Repository) CreateLoan(loan *entities.Loan) error {
	return r.db.Create(loan).Error
}

// GetLoanByID retrieves a loan owned by the given user, with user and
// book eager-loaded. Loans of other users are indistinguishable from
// absent ones: both return gorm.ErrRecordNotFound.
func (r *Repository) GetLoanByID(id uint, userID uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("user_id = ?", userID).
		First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// LoanExists reports whether a loan with the given id exists.
func (r *Repository) LoanExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateLoan applies the given column updates to a loan.
func (r *Repository) UpdateLoan(loan *entities.Loan, updates map[string]any) error {
	return r.db.Model(loan).Updates(updates).Error
}

// CompleteLoan marks a loan completed. Completing an already-completed
// loan leaves it unchanged; completed is terminal.
func (r *Repository) CompleteLoan(loan *entities.Loan) error {
	if loan.Status == entities.LoanStatusCompleted {
		return nil
	}
	if err := r.db.Model(loan).Update("status", entities.LoanStatusCompleted).Error; err != nil {
		return err
	}
	loan.Status = entities.LoanStatusCompleted
	return nil
}

// DeleteLoan hard-deletes a loan and all of its items in one transaction.
// The cascade is applied here rather than left to foreign key
// configuration so the guarantee stays visible and testable.
func (r *Repository) DeleteLoan(loan *entities.Loan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("loan_id = ?", loan.ID).Delete(&entities.LoanItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(loan).Error
	})
}

// --- Loan items ---

// ListLoanItems returns all loan items with loan.user and book
// eager-loaded.
func (r *Repository) ListLoanItems() ([]entities.LoanItem, error) {
	var items []entities.LoanItem
	err := r.db.Preload("Loan.User").Preload("Book").Find(&items).Error
	return items, err
}

// ListOverdueItems returns borrowed items whose due date is before the
// given date, with loan.user and book eager-loaded.
func (r *Repository) ListOverdueItems(asOf entities.Date) ([]entities.LoanItem, error) {
	var items []entities.LoanItem
	err := r.db.Preload("Loan.User").Preload("Book").
		Where("status = ? AND due_date < ?", entities.LoanItemStatusBorrowed, asOf.Time).
		Find(&items).Error
	return items, err
}

// CreateLoanItem inserts a new loan item.
func (r *Repository) CreateLoanItem(item *entities.LoanItem) error {
	return r.db.Create(item).Error
}

// GetLoanItemByID retrieves a loan item with loan.user and book
// eager-loaded. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetLoanItemByID(id uint) (*entities.LoanItem, error) {
	var item entities.LoanItem
	err := r.db.Preload("Loan.User").Preload("Book").First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateLoanItem applies the given column updates to a loan item.
func (r *Repository) UpdateLoanItem(item *entities.LoanItem, updates map[string]any) error {
	return r.db.Model(item).Updates(updates).Error
}

// ReturnLoanItem marks an item returned and stamps return_date with the
// server date. Returning an already-returned item is a no-op: the
// original return_date is preserved.
func (r *Repository) ReturnLoanItem(item *entities.LoanItem) error {
	if item.Status == entities.LoanItemStatusReturned {
		return nil
	}
	today := entities.Today()
	err := r.db.Model(item).Updates(map[string]any{
		"status":      entities.LoanItemStatusReturned,
		"return_date": today.Time,
	}).Error
	if err != nil {
		return err
	}
	item.Status = entities.LoanItemStatusReturned
	item.ReturnDate = &today
	return nil
}

// DeleteLoanItem hard-deletes a loan item.
func (r *Repository) DeleteLoanItem(item *entities.LoanItem) error {
	return r.db.Delete(item).Error
}
