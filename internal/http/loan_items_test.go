package http

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/books"
	"github.com/openshelf/openshelf/internal/database/loans"
	"github.com/openshelf/openshelf/internal/entities"
)

func setupLoanItemsRouter(t *testing.T) (*gin.Engine, *database.Database, *entities.Loan) {
	t.Helper()

	db := setupTestDB(t)
	user := seedTestUser(t, db, "Jane Doe", "jane@example.com")

	book := entities.Book{Title: "The Trial", PublishedAt: entities.Today()}
	require.NoError(t, db.DB.Create(&book).Error)
	loan := entities.Loan{UserID: user.ID, BookID: book.ID, LoanDate: entities.Today(), Status: entities.LoanStatusOngoing}
	require.NoError(t, db.DB.Create(&loan).Error)

	loanRepo := loans.NewRepository(db.DB)
	controller := NewLoanItemsController(loanRepo, loanRepo, books.NewRepository(db.DB))

	router := gin.New()
	router.Use(actAs(user))
	router.GET("/loan-items", controller.ListLoanItems)
	router.GET("/loan-items/overdue", controller.ListOverdueLoanItems)
	router.POST("/loan-items", controller.CreateLoanItem)
	router.GET("/loan-items/:id", controller.GetLoanItem)
	router.PUT("/loan-items/:id", controller.UpdateLoanItem)
	router.DELETE("/loan-items/:id", controller.DeleteLoanItem)
	router.PATCH("/loan-items/:id/return", controller.ReturnLoanItem)

	return router, db, &loan
}

func dateFromToday(days int) string {
	return time.Now().AddDate(0, 0, days).Format(entities.DateFormat)
}

func TestLoanItemsController_Create(t *testing.T) {
	t.Run("creates borrowed item", func(t *testing.T) {
		router, _, loan := setupLoanItemsRouter(t)

		w := performJSON(t, router, "POST", "/loan-items",
			fmt.Sprintf(`{"loan_id":%d,"book_id":%d,"due_date":"%s"}`, loan.ID, loan.BookID, dateFromToday(14)))

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "borrowed", body["status"])
		assert.Nil(t, body["return_date"])
		require.NotNil(t, body["loan"], "created item should eager-load loan")
		loanBody := body["loan"].(map[string]any)
		assert.NotNil(t, loanBody["user"], "nested loan should eager-load user")
		assert.NotNil(t, body["book"], "created item should eager-load book")
	})

	t.Run("required fields", func(t *testing.T) {
		router, _, _ := setupLoanItemsRouter(t)

		w := performJSON(t, router, "POST", "/loan-items", `{}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["loan_id"], "The loan_id field is required.")
		assert.Contains(t, errs["book_id"], "The book_id field is required.")
		assert.Contains(t, errs["due_date"], "The due_date field is required.")
	})

	t.Run("dangling loan reference", func(t *testing.T) {
		router, _, loan := setupLoanItemsRouter(t)

		w := performJSON(t, router, "POST", "/loan-items",
			fmt.Sprintf(`{"loan_id":999,"book_id":%d,"due_date":"%s"}`, loan.BookID, dateFromToday(14)))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["loan_id"], "The selected loan_id is invalid.")
	})

	t.Run("due_date must be in the future", func(t *testing.T) {
		router, _, loan := setupLoanItemsRouter(t)

		for _, due := range []string{dateFromToday(0), dateFromToday(-7)} {
			w := performJSON(t, router, "POST", "/loan-items",
				fmt.Sprintf(`{"loan_id":%d,"book_id":%d,"due_date":"%s"}`, loan.ID, loan.BookID, due))

			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			errs := decodeValidationErrors(t, w)
			assert.Contains(t, errs["due_date"], "The due_date must be a date after today.")
		}
	})

	t.Run("return_date if present must be in the future", func(t *testing.T) {
		router, _, loan := setupLoanItemsRouter(t)

		w := performJSON(t, router, "POST", "/loan-items",
			fmt.Sprintf(`{"loan_id":%d,"book_id":%d,"due_date":"%s","return_date":"%s"}`,
				loan.ID, loan.BookID, dateFromToday(14), dateFromToday(-1)))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["return_date"], "The return_date must be a date after today.")
	})
}

func TestLoanItemsController_Return(t *testing.T) {
	router, db, loan := setupLoanItemsRouter(t)

	item := entities.LoanItem{LoanID: loan.ID, BookID: loan.BookID, DueDate: entities.Today(), Status: entities.LoanItemStatusBorrowed}
	require.NoError(t, db.DB.Create(&item).Error)

	w := performJSON(t, router, "PATCH", "/loan-items/1/return", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "returned", body["status"])
	assert.Equal(t, entities.Today().String(), body["return_date"])

	// Returning again succeeds and preserves the original return_date
	w = performJSON(t, router, "PATCH", "/loan-items/1/return", "")
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "returned", body["status"])
	assert.Equal(t, entities.Today().String(), body["return_date"])

	w = performJSON(t, router, "PATCH", "/loan-items/999/return", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Loan Item not found"}`, w.Body.String())
}

func TestLoanItemsController_Overdue(t *testing.T) {
	router, db, loan := setupLoanItemsRouter(t)

	past := entities.NewDate(2020, time.January, 1)
	overdue := entities.LoanItem{LoanID: loan.ID, BookID: loan.BookID, DueDate: past, Status: entities.LoanItemStatusBorrowed}
	require.NoError(t, db.DB.Create(&overdue).Error)

	future := entities.LoanItem{LoanID: loan.ID, BookID: loan.BookID, DueDate: entities.NewDate(2099, time.January, 1), Status: entities.LoanItemStatusBorrowed}
	require.NoError(t, db.DB.Create(&future).Error)

	w := performJSON(t, router, "GET", "/loan-items/overdue", "")
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeList(t, w)
	require.Len(t, items, 1)
	assert.EqualValues(t, overdue.ID, items[0]["id"])
}

func TestLoanItemsController_UpdateAndDelete(t *testing.T) {
	router, db, loan := setupLoanItemsRouter(t)

	item := entities.LoanItem{LoanID: loan.ID, BookID: loan.BookID, DueDate: entities.Today(), Status: entities.LoanItemStatusBorrowed}
	require.NoError(t, db.DB.Create(&item).Error)

	t.Run("updates status and due date", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/loan-items/1",
			fmt.Sprintf(`{"due_date":"%s","status":"returned"}`, dateFromToday(7)))

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "returned", body["status"])
		assert.Equal(t, dateFromToday(7), body["due_date"])
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/loan-items/1", `{"status":"lost"}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["status"], "The selected status is invalid.")
	})

	t.Run("dangling book reference is rejected", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/loan-items/1", `{"book_id":999}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["book_id"], "The selected book_id is invalid.")
	})

	t.Run("delete", func(t *testing.T) {
		w := performJSON(t, router, "DELETE", "/loan-items/1", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Loan Item deleted"}`, w.Body.String())

		w = performJSON(t, router, "GET", "/loan-items/1", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
