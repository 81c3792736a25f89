// Package members provides database operations for library patrons.
package members

import (
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles all member database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new members repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListMembers returns all members.
func (r *Repository) ListMembers() ([]entities.Member, error) {
	var members []entities.Member
	err := r.db.Find(&members).Error
	return members, err
}

// CreateMember inserts a new member.
func (r *Repository) CreateMember(member *entities.Member) error {
	return r.db.Create(member).Error
}

// GetMemberByID retrieves a member by primary key.
// Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) GetMemberByID(id uint) (*entities.Member, error) {
	var member entities.Member
	if err := r.db.First(&member, id).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// MemberExists reports whether a member with the given id exists.
func (r *Repository) MemberExists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Member{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// EmailTaken reports whether another member already uses the given email.
// excludeID is ignored when zero.
func (r *Repository) EmailTaken(email string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&entities.Member{}).Where("email = ?", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// GetMemberLoans returns the loans issued to a member, with user and book
// eager-loaded.
func (r *Repository) GetMemberLoans(memberID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("User").Preload("Book").
		Where("member_id = ?", memberID).
		Find(&loans).Error
	return loans, err
}

// UpdateMember applies the given column updates to a member.
func (r *Repository) UpdateMember(member *entities.Member, updates map[string]any) error {
	return r.db.Model(member).Updates(updates).Error
}

// DeleteMember hard-deletes a member.
func (r *Repository) DeleteMember(member *entities.Member) error {
	return r.db.Delete(member).Error
}
