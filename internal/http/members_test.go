package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/members"
	"github.com/openshelf/openshelf/internal/entities"
)

func setupMembersRouter(t *testing.T) (*gin.Engine, *database.Database) {
	t.Helper()

	db := setupTestDB(t)
	controller := NewMembersController(members.NewRepository(db.DB))

	router := gin.New()
	router.GET("/members", controller.ListMembers)
	router.POST("/members", controller.CreateMember)
	router.GET("/members/:id", controller.GetMember)
	router.PUT("/members/:id", controller.UpdateMember)
	router.DELETE("/members/:id", controller.DeleteMember)
	router.GET("/members/:id/loans", controller.GetMemberLoans)

	return router, db
}

func TestMembersController_Create(t *testing.T) {
	t.Run("creates member", func(t *testing.T) {
		router, _ := setupMembersRouter(t)

		w := performJSON(t, router, "POST", "/members", `{"name":"Jane Doe","email":"jane@example.com","phone":"555-0101"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.NotZero(t, body["id"])
		assert.Equal(t, "Jane Doe", body["name"])
	})

	t.Run("all fields are required", func(t *testing.T) {
		router, _ := setupMembersRouter(t)

		w := performJSON(t, router, "POST", "/members", `{}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["name"], "The name field is required.")
		assert.Contains(t, errs["email"], "The email field is required.")
		assert.Contains(t, errs["phone"], "The phone field is required.")
	})

	t.Run("invalid email is rejected", func(t *testing.T) {
		router, _ := setupMembersRouter(t)

		w := performJSON(t, router, "POST", "/members", `{"name":"Jane","email":"not-an-email","phone":"555-0101"}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["email"], "The email must be a valid email address.")
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		router, _ := setupMembersRouter(t)

		w := performJSON(t, router, "POST", "/members", `{"name":"Jane","email":"jane@example.com","phone":"555-0101"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = performJSON(t, router, "POST", "/members", `{"name":"Other Jane","email":"jane@example.com","phone":"555-0202"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["email"], "The email has already been taken.")
	})
}

func TestMembersController_Update(t *testing.T) {
	router, db := setupMembersRouter(t)

	jane := entities.Member{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0101"}
	require.NoError(t, db.DB.Create(&jane).Error)
	other := entities.Member{Name: "Other", Email: "other@example.com", Phone: "555-0202"}
	require.NoError(t, db.DB.Create(&other).Error)

	t.Run("partial update", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/members/1", `{"phone":"555-9999"}`)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Jane Doe", body["name"])
		assert.Equal(t, "555-9999", body["phone"])
	})

	t.Run("keeping own email is allowed", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/members/1", `{"email":"jane@example.com"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("taking another member's email is rejected", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/members/1", `{"email":"other@example.com"}`)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decodeValidationErrors(t, w)
		assert.Contains(t, errs["email"], "The email has already been taken.")
	})

	t.Run("unknown id is a 404", func(t *testing.T) {
		w := performJSON(t, router, "PUT", "/members/999", `{"name":"Nobody"}`)

		require.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"Member not found"}`, w.Body.String())
	})
}

func TestMembersController_Delete(t *testing.T) {
	router, db := setupMembersRouter(t)

	member := entities.Member{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0101"}
	require.NoError(t, db.DB.Create(&member).Error)

	w := performJSON(t, router, "DELETE", "/members/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Member deleted"}`, w.Body.String())

	w = performJSON(t, router, "GET", "/members/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMembersController_GetMemberLoans(t *testing.T) {
	router, db := setupMembersRouter(t)

	user := seedTestUser(t, db, "Librarian", "lib@example.com")
	member := entities.Member{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0101"}
	require.NoError(t, db.DB.Create(&member).Error)
	book := entities.Book{Title: "The Trial", PublishedAt: entities.Today()}
	require.NoError(t, db.DB.Create(&book).Error)

	loan := entities.Loan{
		UserID:   user.ID,
		MemberID: &member.ID,
		BookID:   book.ID,
		LoanDate: entities.NewDate(2026, 1, 10),
		Status:   entities.LoanStatusOngoing,
	}
	require.NoError(t, db.DB.Create(&loan).Error)

	w := performJSON(t, router, "GET", "/members/1/loans", "")
	require.Equal(t, http.StatusOK, w.Code)

	loans := decodeList(t, w)
	require.Len(t, loans, 1)
	assert.NotNil(t, loans[0]["user"], "loan user should be eager-loaded")
	assert.NotNil(t, loans[0]["book"], "loan book should be eager-loaded")

	w = performJSON(t, router, "GET", "/members/999/loans", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Member not found"}`, w.Body.String())
}
