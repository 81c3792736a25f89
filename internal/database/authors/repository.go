// Package authors provides database operations for author records.
package authors

import (
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListAuthors returns all authors.
func (r *Repository) ListAuthors() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Find(&authors).Error
	return authors, err
}

// CreateAuthor inserts a new author.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

// GetAuthorByID retrieves an author by primary key.
// Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	if err := r.db.First(&author, id).Error; err != nil {
		return nil, err
	}
	return &author, nil
}

// GetAuthorBooks returns the books associated with an author.
func (r *Repository) GetAuthorBooks(author *entities.Author) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Model(author).Association("Books").Find(&books)
	return books, err
}

// UpdateAuthor applies the given column updates to an author.
func (r *Repository) UpdateAuthor(author *entities.Author, updates map[string]any) error {
	return r.db.Model(author).Updates(updates).Error
}

// DeleteAuthor hard-deletes an author and its join-table associations.
func (r *Repository) DeleteAuthor(author *entities.Author) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(author).Association("Books").Clear(); err != nil {
			return err
		}
		return tx.Delete(author).Error
	})
}
