package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/dtos"
	"github.com/justsurfingit/jobly/internal/models"
	"github.com/justsurfingit/jobly/internal/sqlbuild"
)

// UserStore is the part of services.UserService the handlers use.
type UserStore interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, req *dtos.UserCreationRequest) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, username string, updates []sqlbuild.Assignment) (*models.User, error)
	Remove(ctx context.Context, username string) error
	ApplyToJob(ctx context.Context, username string, jobID int) error
}

// TokenIssuer signs login tokens; *auth.TokenManager implements it.
type TokenIssuer interface {
	CreateToken(username string, isAdmin bool) (string, error)
}

type UserHandler struct {
	Users  UserStore
	Tokens TokenIssuer
}

func NewUserHandler(users UserStore, tokens TokenIssuer) *UserHandler {
	return &UserHandler{Users: users, Tokens: tokens}
}

// CreateUser is the admin-only POST /users. Unlike self registration it can
// create admins, and it returns the new user along with a token for them.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dtos.UserCreationRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.Users.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	token, err := h.Tokens.CreateToken(user.Username, user.IsAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.FindAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.Users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req dtos.UserUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.Users.Update(c.Request.Context(), c.Param("username"), req.Assignments())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := h.Users.Remove(c.Request.Context(), username); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

// ApplyToJob is POST /users/:username/jobs/:id.
func (h *UserHandler) ApplyToJob(c *gin.Context) {
	id, ok := jobID(c)
	if !ok {
		return
	}
	if err := h.Users.ApplyToJob(c.Request.Context(), c.Param("username"), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": id})
}
