package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/demo"
)

// RouterConfig receives all router dependencies, improving testability
// and reducing parameter count.
type RouterConfig struct {
	Database *database.Database
	Version  string

	Authors   AuthorStore
	Books     BookStore
	Members   MemberStore
	Loans     LoanStore
	LoanItems LoanItemStore

	BookFinder   BookFinder
	MemberFinder MemberFinder
	LoanFinder   LoanFinder

	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	RateLimiter    *auth.RateLimiter
	CSRFSecret     []byte
	SecureCookies  bool

	DemoMode   bool
	StaticPath string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Demo mode rejects writes before any of them reach a handler
	if cfg.DemoMode {
		router.Use(demo.NewMiddleware(true).Handler())
	}

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Serve the built SPA if configured
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Auth endpoints
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter)
		router.POST("/register", authController.Register)
		router.POST("/login", authController.Login)
		router.POST("/logout", authController.Logout)
		router.GET("/get-user", authController.GetCurrentUser)
	}

	// Author endpoints
	authorsController := NewAuthorsController(cfg.Authors)
	router.GET("/authors", authorsController.ListAuthors)
	router.POST("/authors", authorsController.CreateAuthor)
	router.GET("/authors/:id", authorsController.GetAuthor)
	router.PUT("/authors/:id", authorsController.UpdateAuthor)
	router.DELETE("/authors/:id", authorsController.DeleteAuthor)
	router.GET("/authors/:id/books", authorsController.GetAuthorBooks)

	// Book endpoints
	booksController := NewBooksController(cfg.Books)
	router.GET("/books", booksController.ListBooks)
	router.POST("/books", booksController.CreateBook)
	router.GET("/books/:id", booksController.GetBook)
	router.PUT("/books/:id", booksController.UpdateBook)
	router.DELETE("/books/:id", booksController.DeleteBook)

	// Member endpoints
	membersController := NewMembersController(cfg.Members)
	router.GET("/members", membersController.ListMembers)
	router.POST("/members", membersController.CreateMember)
	router.GET("/members/:id", membersController.GetMember)
	router.PUT("/members/:id", membersController.UpdateMember)
	router.DELETE("/members/:id", membersController.DeleteMember)
	router.GET("/members/:id/loans", membersController.GetMemberLoans)

	// Loan endpoints
	loansController := NewLoansController(cfg.Loans, cfg.BookFinder, cfg.MemberFinder)
	router.GET("/loans", loansController.ListLoans)
	router.POST("/loans", loansController.CreateLoan)
	router.GET("/loans/:id", loansController.GetLoan)
	router.PUT("/loans/:id", loansController.UpdateLoan)
	router.DELETE("/loans/:id", loansController.DeleteLoan)
	router.PATCH("/loans/:id/complete", loansController.CompleteLoan)

	// Loan item endpoints
	loanItemsController := NewLoanItemsController(cfg.LoanItems, cfg.LoanFinder, cfg.BookFinder)
	router.GET("/loan-items", loanItemsController.ListLoanItems)
	router.GET("/loan-items/overdue", loanItemsController.ListOverdueLoanItems)
	router.POST("/loan-items", loanItemsController.CreateLoanItem)
	router.GET("/loan-items/:id", loanItemsController.GetLoanItem)
	router.PUT("/loan-items/:id", loanItemsController.UpdateLoanItem)
	router.DELETE("/loan-items/:id", loanItemsController.DeleteLoanItem)
	router.PATCH("/loan-items/:id/return", loanItemsController.ReturnLoanItem)

	return router
}
