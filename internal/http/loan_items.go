package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
)

// LoanItemStore defines database operations for loan items.
type LoanItemStore interface {
	ListLoanItems() ([]entities.LoanItem, error)
	ListOverdueItems(asOf entities.Date) ([]entities.LoanItem, error)
	CreateLoanItem(item *entities.LoanItem) error
	GetLoanItemByID(id uint) (*entities.LoanItem, error)
	UpdateLoanItem(item *entities.LoanItem, updates map[string]any) error
	ReturnLoanItem(item *entities.LoanItem) error
	DeleteLoanItem(item *entities.LoanItem) error
}

// LoanFinder checks loan existence for referential validation.
type LoanFinder interface {
	LoanExists(id uint) (bool, error)
}

type LoanItemsController struct {
	store LoanItemStore
	loans LoanFinder
	books BookFinder
}

func NewLoanItemsController(store LoanItemStore, loans LoanFinder, books BookFinder) *LoanItemsController {
	return &LoanItemsController{store: store, loans: loans, books: books}
}

type createLoanItemRequest struct {
	LoanID     *uint   `json:"loan_id" binding:"required"`
	BookID     *uint   `json:"book_id" binding:"required"`
	DueDate    string  `json:"due_date" binding:"required,datetime=2006-01-02"`
	ReturnDate *string `json:"return_date" binding:"omitempty,datetime=2006-01-02"`
}

type updateLoanItemRequest struct {
	LoanID     *uint   `json:"loan_id"`
	BookID     *uint   `json:"book_id"`
	DueDate    *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ReturnDate *string `json:"return_date" binding:"omitempty,datetime=2006-01-02"`
	Status     *string `json:"status" binding:"omitempty,oneof=borrowed returned"`
}

// ListLoanItems returns all loan items with loan.user and book
// eager-loaded.
// GET /loan-items
func (lic *LoanItemsController) ListLoanItems(c *gin.Context) {
	items, err := lic.store.ListLoanItems()
	if err != nil {
		respondInternalError(c, err, "list loan items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// ListOverdueLoanItems returns borrowed items whose due date has passed
// GET /loan-items/overdue
func (lic *LoanItemsController) ListOverdueLoanItems(c *gin.Context) {
	items, err := lic.store.ListOverdueItems(entities.Today())
	if err != nil {
		respondInternalError(c, err, "list overdue loan items")
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateLoanItem inserts a new loan item in the borrowed state. Due and
// return dates must both lie in the future at call time.
// POST /loan-items
func (lic *LoanItemsController) CreateLoanItem(c *gin.Context) {
	var req createLoanItemRequest
	if !bindJSON(c, &req) {
		return
	}

	errs := fieldErrors{}

	exists, err := lic.loans.LoanExists(*req.LoanID)
	if err != nil {
		respondInternalError(c, err, "check loan")
		return
	}
	if !exists {
		errs.add("loan_id", "The selected loan_id is invalid.")
	}

	exists, err = lic.books.BookExists(*req.BookID)
	if err != nil {
		respondInternalError(c, err, "check book")
		return
	}
	if !exists {
		errs.add("book_id", "The selected book_id is invalid.")
	}

	today := entities.Today()

	dueDate := mustParseDate(req.DueDate)
	if !dueDate.After(today) {
		errs.add("due_date", "The due_date must be a date after today.")
	}

	var returnDate *entities.Date
	if req.ReturnDate != nil {
		d := mustParseDate(*req.ReturnDate)
		if !d.After(today) {
			errs.add("return_date", "The return_date must be a date after today.")
		} else {
			returnDate = &d
		}
	}

	if !errs.empty() {
		respondValidationErrors(c, errs)
		return
	}

	item := entities.LoanItem{
		LoanID:     *req.LoanID,
		BookID:     *req.BookID,
		DueDate:    dueDate,
		ReturnDate: returnDate,
		Status:     entities.LoanItemStatusBorrowed,
	}

	if err := lic.store.CreateLoanItem(&item); err != nil {
		respondInternalError(c, err, "create loan item")
		return
	}

	created, err := lic.store.GetLoanItemByID(item.ID)
	if err != nil {
		respondInternalError(c, err, "load created loan item")
		return
	}

	respondCreated(c, created)
}

// GetLoanItem returns a single loan item with loan.user and book
// eager-loaded.
// GET /loan-items/:id
func (lic *LoanItemsController) GetLoanItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := lic.store.GetLoanItemByID(id)
	if err != nil {
		respondStoreError(c, err, "Loan Item", "get loan item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// UpdateLoanItem applies a partial update; absent fields are untouched
// PUT /loan-items/:id
func (lic *LoanItemsController) UpdateLoanItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := lic.store.GetLoanItemByID(id)
	if err != nil {
		respondStoreError(c, err, "Loan Item", "update loan item")
		return
	}

	var req updateLoanItemRequest
	if !bindJSON(c, &req) {
		return
	}

	errs := fieldErrors{}
	updates := map[string]any{}

	if req.LoanID != nil {
		exists, err := lic.loans.LoanExists(*req.LoanID)
		if err != nil {
			respondInternalError(c, err, "check loan")
			return
		}
		if !exists {
			errs.add("loan_id", "The selected loan_id is invalid.")
		} else {
			updates["loan_id"] = *req.LoanID
		}
	}

	if req.BookID != nil {
		exists, err := lic.books.BookExists(*req.BookID)
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

	if req.DueDate != nil {
		updates["due_date"] = mustParseDate(*req.DueDate).Time
	}
	if req.ReturnDate != nil {
		updates["return_date"] = mustParseDate(*req.ReturnDate).Time
	}
	if req.Status != nil {
		updates["status"] = entities.LoanItemStatus(*req.Status)
	}

	if !errs.empty() {
		respondValidationErrors(c, errs)
		return
	}

	if len(updates) > 0 {
		if err := lic.store.UpdateLoanItem(item, updates); err != nil {
			respondInternalError(c, err, "update loan item")
			return
		}
	}

	updated, err := lic.store.GetLoanItemByID(item.ID)
	if err != nil {
		respondInternalError(c, err, "load updated loan item")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// ReturnLoanItem marks an item returned, stamping return_date with the
// server date rather than accepting client input. Returning an
// already-returned item succeeds without changing the stored date.
// PATCH /loan-items/:id/return
func (lic *LoanItemsController) ReturnLoanItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := lic.store.GetLoanItemByID(id)
	if err != nil {
		respondStoreError(c, err, "Loan Item", "return loan item")
		return
	}

	if err := lic.store.ReturnLoanItem(item); err != nil {
		respondInternalError(c, err, "return loan item")
		return
	}

	c.JSON(http.StatusOK, item)
}

// DeleteLoanItem hard-deletes a loan item
// DELETE /loan-items/:id
func (lic *LoanItemsController) DeleteLoanItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := lic.store.GetLoanItemByID(id)
	if err != nil {
		respondStoreError(c, err, "Loan Item", "delete loan item")
		return
	}

	if err := lic.store.DeleteLoanItem(item); err != nil {
		respondInternalError(c, err, "delete loan item")
		return
	}

	respondDeleted(c, "Loan Item")
}
