package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/auth"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns 0 when auth is disabled or no user is authenticated.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// GetUserName extracts the authenticated user's display name.
func GetUserName(c *gin.Context) string {
	return auth.GetUserName(c)
}

// --- Response Types ---

// MessageResponse carries a human-readable status message. Used for 404s
// and deletion confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ValidationErrorResponse is the 422 envelope: field name to messages.
type ValidationErrorResponse struct {
	Errors map[string][]string `json:"errors"`
}

// ErrorResponse is the 500 envelope. The cause is logged, never exposed.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, MessageResponse{Message: message})
}

// respondNotFound sends a 404 with the "<Entity> not found" message.
func respondNotFound(c *gin.Context, entity string) {
	c.JSON(http.StatusNotFound, MessageResponse{Message: entity + " not found"})
}

// respondValidationErrors sends a 422 with field-keyed error messages.
func respondValidationErrors(c *gin.Context, errs map[string][]string) {
	c.JSON(http.StatusUnprocessableEntity, ValidationErrorResponse{Errors: errs})
}

// respondInternalError logs the error and sends a generic 500.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondStoreError translates a repository error: record-not-found
// becomes a 404 for the given entity, anything else a 500.
func respondStoreError(c *gin.Context, err error, entity string, context string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, entity)
		return
	}
	respondInternalError(c, err, context)
}

// --- Success Response Helpers ---

// respondDeleted sends the deletion confirmation for an entity.
func respondDeleted(c *gin.Context, entity string) {
	c.JSON(http.StatusOK, MessageResponse{Message: entity + " deleted"})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
