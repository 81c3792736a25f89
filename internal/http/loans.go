package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
)

// LoanStore defines database operations for the loan lifecycle.
type LoanStore interface {
	ListLoansForUser(userID uint) ([]entities.Loan, error)
	CreateLoan(loan *entities.Loan) error
	GetLoanByID(id uint, userID uint) (*entities.Loan, error)
	UpdateLoan(loan *entities.Loan, updates map[string]any) error
	CompleteLoan(loan *entities.Loan) error
	DeleteLoan(loan *entities.Loan) error
}

// BookFinder checks book existence for referential validation.
type BookFinder interface {
	BookExists(id uint) (bool, error)
}

// MemberFinder checks member existence for referential validation.
type MemberFinder interface {
	MemberExists(id uint) (bool, error)
}

type LoansController struct {
	store   LoanStore
	books   BookFinder
	members MemberFinder
}

func NewLoansController(store LoanStore, books BookFinder, members MemberFinder) *LoansController {
	return &LoansController{store: store, books: books, members: members}
}

type createLoanRequest struct {
	BookID     *uint   `json:"book_id" binding:"required"`
	MemberID   *uint   `json:"member_id"`
	LoanDate   string  `json:"loan_date" binding:"required,datetime=2006-01-02"`
	ReturnDate *string `json:"return_date" binding:"omitempty,datetime=2006-01-02"`
}

type updateLoanRequest struct {
	BookID     *uint   `json:"book_id"`
	MemberID   *uint   `json:"member_id"`
	LoanDate   *string `json:"loan_date" binding:"omitempty,datetime=2006-01-02"`
	ReturnDate *string `json:"return_date" binding:"omitempty,datetime=2006-01-02"`
	Status     *string `json:"status" binding:"omitempty,oneof=ongoing completed"`
}

// ListLoans returns the loans owned by the authenticated caller, with
// user and book eager-loaded. Never leaks other users' loans.
// GET /loans
func (lc *LoansController) ListLoans(c *gin.Context) {
	loans, err := lc.store.ListLoansForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list loans")
		return
	}
	c.JSON(http.StatusOK, loans)
}

// CreateLoan starts a new loan in the ongoing state. The owner is always
// the authenticated caller; user_id from the request body is ignored.
// POST /loans
func (lc *LoansController) CreateLoan(c *gin.Context) {
	var req createLoanRequest
	if !bindJSON(c, &req) {
		return
	}

	errs := fieldErrors{}

	exists, err := lc.books.BookExists(*req.BookID)
	if err != nil {
		respondInternalError(c, err, "check book")
		return
	}
	if !exists {
		errs.add("book_id", "The selected book_id is invalid.")
	}

	if req.MemberID != nil {
		exists, err := lc.members.MemberExists(*req.MemberID)
		if err != nil {
			respondInternalError(c, err, "check member")
			return
		}
		if !exists {
			errs.add("member_id", "The selected member_id is invalid.")
		}
	}

	loanDate := mustParseDate(req.LoanDate)
	var returnDate *entities.Date
	if req.ReturnDate != nil {
		d := mustParseDate(*req.ReturnDate)
		if d.Before(loanDate) {
			errs.add("return_date", "The return_date must be a date after or equal to loan_date.")
		} else {
			returnDate = &d
		}
	}

	if !errs.empty() {
		respondValidationErrors(c, errs)
		return
	}

	loan := entities.Loan{
		UserID:     GetUserID(c),
		MemberID:   req.MemberID,
		BookID:     *req.BookID,
		LoanDate:   loanDate,
		ReturnDate: returnDate,
		Status:     entities.LoanStatusOngoing,
	}

	if err := lc.store.CreateLoan(&loan); err != nil {
		respondInternalError(c, err, "create loan")
		return
	}

	created, err := lc.store.GetLoanByID(loan.ID, loan.UserID)
	if err != nil {
		respondInternalError(c, err, "load created loan")
		return
	}

	respondCreated(c, created)
}

// GetLoan returns a single loan with user and book eager-loaded. Loans
// owned by other users respond 404, never 403, so ids stay opaque.
// GET /loans/:id
func (lc *LoansController) GetLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.GetLoanByID(id, GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "Loan", "get loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// UpdateLoan applies a partial update. The loan date ordering invariant
// is enforced against the effective values after the update, and a
// completed loan cannot be moved back to ongoing.
// PUT /loans/:id
func (lc *LoansController) UpdateLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.GetLoanByID(id, GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "Loan", "update loan")
		return
	}

	var req updateLoanRequest
	if !bindJSON(c, &req) {
		return
	}

	errs := fieldErrors{}
	updates := map[string]any{}

	if req.BookID != nil {
		exists, err := lc.books.BookExists(*req.BookID)
		if err != nil {
			respondInternalError(c, err, "check book")
			return
		}
		if !exists {
			errs.add("book_id", "The selected book_id is invalid.")
		} else {
			updates["book_id"] = *req.BookID
		}
	}

	if req.MemberID != nil {
		exists, err := lc.members.MemberExists(*req.MemberID)
		if err != nil {
			respondInternalError(c, err, "check member")
			return
		}
		if !exists {
			errs.add("member_id", "The selected member_id is invalid.")
		} else {
			updates["member_id"] = *req.MemberID
		}
	}

	loanDate := loan.LoanDate
	if req.LoanDate != nil {
		loanDate = mustParseDate(*req.LoanDate)
		updates["loan_date"] = loanDate.Time
	}

	returnDate := loan.ReturnDate
	if req.ReturnDate != nil {
		d := mustParseDate(*req.ReturnDate)
		returnDate = &d
		updates["return_date"] = d.Time
	}

	if returnDate != nil && returnDate.Before(loanDate) {
		errs.add("return_date", "The return_date must be a date after or equal to loan_date.")
	}

	if req.Status != nil {
		next := entities.LoanStatus(*req.Status)
		if loan.Status == entities.LoanStatusCompleted && next != entities.LoanStatusCompleted {
			errs.add("status", "The selected status is invalid.")
		} else {
			updates["status"] = next
		}
	}

	if !errs.empty() {
		respondValidationErrors(c, errs)
		return
	}

	if len(updates) > 0 {
		if err := lc.store.UpdateLoan(loan, updates); err != nil {
			respondInternalError(c, err, "update loan")
			return
		}
	}

	updated, err := lc.store.GetLoanByID(loan.ID, loan.UserID)
	if err != nil {
		respondInternalError(c, err, "load updated loan")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// CompleteLoan moves a loan to the completed state. Completed is
// terminal; completing an already-completed loan is a no-op success.
// PATCH /loans/:id/complete
func (lc *LoansController) CompleteLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.GetLoanByID(id, GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "Loan", "complete loan")
		return
	}

	if err := lc.store.CompleteLoan(loan); err != nil {
		respondInternalError(c, err, "complete loan")
		return
	}

	c.JSON(http.StatusOK, loan)
}

// DeleteLoan hard-deletes a loan and cascades to its items
// DELETE /loans/:id
func (lc *LoansController) DeleteLoan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.GetLoanByID(id, GetUserID(c))
	if err != nil {
		respondStoreError(c, err, "Loan", "delete loan")
		return
	}

	if err := lc.store.DeleteLoan(loan); err != nil {
		respondInternalError(c, err, "delete loan")
		return
	}

	respondDeleted(c, "Loan")
}
