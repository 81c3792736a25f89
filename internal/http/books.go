package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
)

// BookStore defines database operations for the book catalogue.
type BookStore interface {
	ListBooks() ([]entities.Book, error)
	CreateBook(book *entities.Book, creatorName string) error
	GetBookByID(id uint) (*entities.Book, error)
	UpdateBook(book *entities.Book, updates map[string]any) error
	DeleteBook(book *entities.Book) error
}

type BooksController struct {
	store BookStore
}

func NewBooksController(store BookStore) *BooksController {
	return &BooksController{store: store}
}

type createBookRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description"`
	PublishedAt *string `json:"published_at" binding:"omitempty,datetime=2006-01-02"`
}

type updateBookRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	PublishedAt *string `json:"published_at" binding:"omitempty,datetime=2006-01-02"`
}

// ListBooks returns all books with authors eager-loaded
// GET /books
func (bc *BooksController) ListBooks(c *gin.Context) {
	books, err := bc.store.ListBooks()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// CreateBook inserts a new book. The publication date defaults to the
// server date when omitted, and the acting user's name is attached as an
// author of the new book (found or created by name, never detaching
// existing associations).
// POST /books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if !bindJSON(c, &req) {
		return
	}

	publishedAt := entities.Today()
	if req.PublishedAt != nil {
		publishedAt = mustParseDate(*req.PublishedAt)
	}

	book := entities.Book{
		Title:       req.Title,
		Description: req.Description,
		PublishedAt: publishedAt,
	}

	if err := bc.store.CreateBook(&book, GetUserName(c)); err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	created, err := bc.store.GetBookByID(book.ID)
	if err != nil {
		respondInternalError(c, err, "load created book")
		return
	}

	respondCreated(c, created)
}

// GetBook returns a single book with authors eager-loaded
// GET /books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondStoreError(c, err, "Book", "get book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// UpdateBook applies a partial update; absent fields are untouched
// PUT /books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondStoreError(c, err, "Book", "update book")
		return
	}

	var req updateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.PublishedAt != nil {
		updates["published_at"] = mustParseDate(*req.PublishedAt).Time
	}

	if len(updates) > 0 {
		if err := bc.store.UpdateBook(book, updates); err != nil {
			respondInternalError(c, err, "update book")
			return
		}
	}

	updated, err := bc.store.GetBookByID(book.ID)
	if err != nil {
		respondInternalError(c, err, "load updated book")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteBook hard-deletes a book
// DELETE /books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		respondStoreError(c, err, "Book", "delete book")
		return
	}

	if err := bc.store.DeleteBook(book); err != nil {
		respondInternalError(c, err, "delete book")
		return
	}

	respondDeleted(c, "Book")
}
