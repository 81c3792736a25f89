// Package books provides database operations for the book catalogue.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBookByID(id)
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns all books with their authors eager-loaded.
func (r *Repository) ListBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Authors").Find(&books).Error
	return books, err
}

// CreateBook inserts a new book and, when creatorName is non-empty,
// attaches a matching author inside the same transaction. The author is
// looked up by name and created if absent; existing author associations
// are never detached.
func (r *Repository) CreateBook(book *entities.Book, creatorName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		if creatorName == "" {
			return nil
		}

		var author entities.Author
		err := tx.Where("name = ?", creatorName).First(&author).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			author = entities.Author{Name: creatorName}
			err = tx.Create(&author).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(book).Association("Authors").Append(&author)
	})
}

// GetBookByID retrieves a book with authors eager-loaded.
// Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.Preload("Authors").First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// BookExists reports whether a book with the given id exists.
func (r *Repository) BookExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateBook applies the given column updates to a book.
func (r *Repository) UpdateBook(book *entities.Book, updates map[string]any) error {
	return r.db.Model(book).Updates(updates).Error
}

// DeleteBook hard-deletes a book and its author associations.
func (r *Repository) DeleteBook(book *entities.Book) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(book).Association("Authors").Clear(); err != nil {
			return err
		}
		return tx.Delete(book).Error
	})
}
