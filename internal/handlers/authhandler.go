package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobly/internal/dtos"
)

type AuthHandler struct {
	Users  UserStore
	Tokens TokenIssuer
}

func NewAuthHandler(users UserStore, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens}
}

// Token is POST /auth/token: trade a username and password for a token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req dtos.TokenRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	token, err := h.Tokens.CreateToken(user.Username, user.IsAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Register is POST /auth/register. Self-registered users are never admins.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dtos.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	creation := req.AsCreation()
	user, err := h.Users.Register(c.Request.Context(), &creation)
	if err != nil {
		fail(c, err)
		return
	}
	token, err := h.Tokens.CreateToken(user.Username, user.IsAdmin)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token})
}
