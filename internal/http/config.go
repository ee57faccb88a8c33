package http

import (
	"github.com/openshelf/lendhub/internal/audit"
	"github.com/openshelf/lendhub/internal/auth"
	"github.com/openshelf/lendhub/internal/database"
)

// RouterConfig holds all dependencies needed to construct the router.
// Optional fields (audit service, cover cache, task client, CSRF secret)
// may be nil or empty; the corresponding concern is then disabled.
type RouterConfig struct {
	Database *database.Database
	Version  string

	BookStore      BookStore
	LendingService LendingService
	WishlistStore  WishlistStore
	UserStore      UserStore

	AuditService *audit.Service
	CoverCache   BookCoverCache
	TaskClient   TaskEnqueuer

	SessionManager *auth.SessionManager
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware

	CSRFSecret    []byte
	SecureCookies bool
}

// BookCoverCache combines serving and invalidation of cached covers.
// Satisfied by *covers.Cache.
type BookCoverCache interface {
	CoverCache
	CoverInvalidator
}
