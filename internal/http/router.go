// Package http wires the lending API's controllers onto a gin router.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/lendhub/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session loading so the session context set up
	// below is not overwritten by CSRF's request replacement.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	authMW := cfg.AuthMiddleware
	if authMW == nil {
		authMW = auth.NewMiddleware(cfg.SessionManager)
	}
	router.Use(authMW.Identify())

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Session endpoints
	if cfg.AuthController != nil {
		cfg.AuthController.RegisterRoutes(router)
	}

	// Catalog endpoints
	booksController := NewBooksController(cfg.BookStore, cfg.AuditService, cfg.CoverCache, cfg.TaskClient)
	router.GET("/api/books", booksController.GetBooks)
	router.POST("/api/books", booksController.CreateBook)
	router.GET("/api/books/:id", booksController.GetBook)
	router.PUT("/api/books/:id", booksController.UpdateBook)
	router.DELETE("/api/books/:id", booksController.DeleteBook)

	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.BookStore)
		router.GET("/api/books/:id/cover", coversController.GetCover)
	}

	// Lending endpoints (authenticated)
	lendingController := NewLendingController(cfg.LendingService, cfg.BookStore, cfg.AuditService)
	router.POST("/api/books/:id/borrow", authMW.RequireAuth(), lendingController.Borrow)
	router.POST("/api/books/:id/return", authMW.RequireAuth(), lendingController.Return)
	router.GET("/api/borrowings", authMW.RequireAuth(), lendingController.ListBorrowings)

	// Wishlist endpoints; listing is deliberately open so the catalog page
	// renders for anonymous visitors
	wishlistController := NewWishlistController(cfg.WishlistStore)
	router.GET("/api/wishlist", wishlistController.List)
	router.POST("/api/wishlist/:bookId", authMW.RequireAuth(), wishlistController.Add)
	router.DELETE("/api/wishlist/:bookId", authMW.RequireAuth(), wishlistController.Remove)

	// Staff dashboard
	dashboardController := NewDashboardController(cfg.UserStore)
	router.GET("/api/dashboard/users", authMW.RequireStaff(), dashboardController.ListUsers)

	return router
}
