package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/geocoder89/albumhub/internal/config"
	"github.com/geocoder89/albumhub/internal/domain/user"
	"github.com/geocoder89/albumhub/internal/http/middlewares"
	"github.com/geocoder89/albumhub/internal/repo/postgres"
	"github.com/geocoder89/albumhub/internal/security"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, username, email, passwordHash string) (user.User, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	jwt        TokenIssuer
}

func NewAuthHandler(users UserReader, userWriter UserWriter, jwt TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		jwt:        jwt,
	}
}

type SignUpRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// SignUp hashes the password, persists the user and answers with the raw
// token string as the response body. The plaintext password is never
// stored or logged.
func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, req.Username, req.Email, hash)

	if err != nil {
		if err == postgres.ErrUsernameTaken {
			RespondBadRequest(ctx, "Username is already in use.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	token, err := h.jwt.Issue(u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.String(http.StatusOK, token)
}

// SignIn runs behind the basic-credentials middleware. Unknown username
// and wrong password produce the same response on purpose.
func (h *AuthHandler) SignIn(ctx *gin.Context) {
	username, password, ok := middlewares.BasicCredentialsFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing credentials")
		return
	}

	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, username)
	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
		return
	}

	token, err := h.jwt.Issue(foundUser.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.String(http.StatusOK, token)
}
