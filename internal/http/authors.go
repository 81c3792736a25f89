package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
)

// AuthorStore defines database operations for author management.
type AuthorStore interface {
	ListAuthors() ([]entities.Author, error)
	CreateAuthor(author *entities.Author) error
	GetAuthorByID(id uint) (*entities.Author, error)
	GetAuthorBooks(author *entities.Author) ([]entities.Book, error)
	UpdateAuthor(author *entities.Author, updates map[string]any) error
	DeleteAuthor(author *entities.Author) error
}

type AuthorsController struct {
	store AuthorStore
}

func NewAuthorsController(store AuthorStore) *AuthorsController {
	return &AuthorsController{store: store}
}

type createAuthorRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Bio  string `json:"bio"`
}

type updateAuthorRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
	Bio  *string `json:"bio"`
}

// ListAuthors returns all authors
// GET /authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	authors, err := ac.store.ListAuthors()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, authors)
}

// CreateAuthor inserts a new author
// POST /authors
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req createAuthorRequest
	if !bindJSON(c, &req) {
		return
	}

	author := entities.Author{Name: req.Name, Bio: req.Bio}
	if err := ac.store.CreateAuthor(&author); err != nil {
		respondInternalError(c, err, "create author")
		return
	}

	respondCreated(c, author)
}

// GetAuthor returns a single author
// GET /authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthorByID(id)
	if err != nil {
		respondStoreError(c, err, "Author", "get author")
		return
	}

	c.JSON(http.StatusOK, author)
}

// UpdateAuthor applies a partial update; absent fields are untouched
// PUT /authors/:id
func (ac *AuthorsController) UpdateAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthorByID(id)
	if err != nil {
		respondStoreError(c, err, "Author", "update author")
		return
	}

	var req updateAuthorRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) > 0 {
		if err := ac.store.UpdateAuthor(author, updates); err != nil {
			respondInternalError(c, err, "update author")
			return
		}
	}

	c.JSON(http.StatusOK, author)
}

// DeleteAuthor hard-deletes an author
// DELETE /authors/:id
func (ac *AuthorsController) DeleteAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthorByID(id)
	if err != nil {
		respondStoreError(c, err, "Author", "delete author")
		return
	}

	if err := ac.store.DeleteAuthor(author); err != nil {
		respondInternalError(c, err, "delete author")
		return
	}

	respondDeleted(c, "Author")
}

// GetAuthorBooks returns the books written by an author
// GET /authors/:id/books
func (ac *AuthorsController) GetAuthorBooks(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ac.store.GetAuthorByID(id)
	if err != nil {
		respondStoreError(c, err, "Author", "get author books")
		return
	}

	books, err := ac.store.GetAuthorBooks(author)
	if err != nil {
		respondInternalError(c, err, "get author books")
		return
	}

	c.JSON(http.StatusOK, books)
}
