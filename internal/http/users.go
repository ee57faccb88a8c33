package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/lendhub/internal/entities"
)

// UserStore defines database operations for the staff dashboard.
type UserStore interface {
	GetAllUsers() ([]entities.User, error)
}

// DashboardUser is the member listing entry shown to staff. Credentials and
// lockout state never leave the server.
type DashboardUser struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// DashboardController handles the staff-only dashboard endpoints.
type DashboardController struct {
	store UserStore
}

// NewDashboardController creates a new dashboard controller.
func NewDashboardController(store UserStore) *DashboardController {
	return &DashboardController{store: store}
}

// ListUsers returns every registered account for the staff dashboard.
// GET /api/dashboard/users
func (dc *DashboardController) ListUsers(c *gin.Context) {
	users, err := dc.store.GetAllUsers()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}

	listing := make([]DashboardUser, 0, len(users))
	for _, user := range users {
		listing = append(listing, DashboardUser{
			ID:        user.ID,
			Username:  user.Username,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": listing, "count": len(listing)})
}
