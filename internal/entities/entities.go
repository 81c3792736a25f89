package entities

import (
	"time"
)

type LoanStatus string

const (
	LoanStatusOngoing   LoanStatus = "ongoing"
	LoanStatusCompleted LoanStatus = "completed"
)

type LoanItemStatus string

const (
	LoanItemStatusBorrowed LoanItemStatus = "borrowed"
	LoanItemStatusReturned LoanItemStatus = "returned"
)

// User is an authenticated account. The plaintext API token is never
// stored; only its SHA-256 hash is.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:255" json:"name"`
	Email          string     `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash   string     `gorm:"size:255" json:"-"`
	TokenHash      string     `gorm:"index;size:64" json:"-"`
	TokenCreatedAt *time.Time `json:"-"`
	LastLoginAt    *time.Time `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Member is a library patron. Members are plain records and do not log in.
type Member struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:255" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Loans     []Loan    `gorm:"foreignKey:MemberID" json:"loans,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:255" json:"name"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	Books     []Book    `gorm:"many2many:author_book;" json:"books,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	PublishedAt Date       `json:"published_at"`
	Authors     []Author   `gorm:"many2many:author_book;" json:"authors,omitempty"`
	LoanItems   []LoanItem `gorm:"foreignKey:BookID" json:"loan_items,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Loan is a borrowing record owned by the user who created it. MemberID
// optionally links the patron the loan was issued to.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	MemberID   *uint      `gorm:"index" json:"member_id,omitempty"`
	BookID     uint       `gorm:"index" json:"book_id"`
	LoanDate   Date       `json:"loan_date"`
	ReturnDate *Date      `json:"return_date"`
	Status     LoanStatus `gorm:"size:20;default:'ongoing'" json:"status"`
	User       *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Member     *Member    `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Book       *Book      `gorm:"foreignKey:BookID" json:"book,omitempty"`
	LoanItems  []LoanItem `gorm:"foreignKey:LoanID" json:"loan_items,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LoanItem is a single borrowed book copy within a loan, tracked
// independently for due and return dates.
type LoanItem struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	LoanID     uint           `gorm:"index" json:"loan_id"`
	BookID     uint           `gorm:"index" json:"book_id"`
	DueDate    Date           `json:"due_date"`
	ReturnDate *Date          `json:"return_date"`
	Status     LoanItemStatus `gorm:"size:20;default:'borrowed'" json:"status"`
	Loan       *Loan          `gorm:"foreignKey:LoanID" json:"loan,omitempty"`
	Book       *Book          `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (User) TableName() string     { return "users" }
func (Member) TableName() string   { return "members" }
func (Author) TableName() string   { return "authors" }
func (Book) TableName() string     { return "books" }
func (Loan) TableName() string     { return "loans" }
func (LoanItem) TableName() string { return "loan_items" }
