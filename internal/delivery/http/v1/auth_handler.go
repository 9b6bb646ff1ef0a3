package v1

import (
	"errors"
	"net/http"

	"skillsync-backend/internal/delivery/http/middleware"
	"skillsync-backend/internal/delivery/http/response"
	"skillsync-backend/internal/domain"
	"skillsync-backend/pkg/apperror"
	"skillsync-backend/pkg/logger"
	"skillsync-backend/pkg/security"
	"skillsync-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC       domain.AuthUsecase
	secureCookie bool
}

func NewAuthHandler(public *gin.RouterGroup, authUC domain.AuthUsecase, secureCookie bool, authLimit, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC:       authUC,
		secureCookie: secureCookie,
	}

	publicAuth := public.Group("/auth", authLimit)
	{
		publicAuth.POST("/register", handler.Register)
		publicAuth.POST("/login", loginLimit, handler.Login)
	}
}

// RegisterRequest caps the password at bcrypt's 72 byte input limit.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest carries no password policy; a bad password is a 401.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type LoginResponse struct {
	User  LoginUser `json:"user"`
	Token string    `json:"token"`
}

// Register godoc
// @Summary      Register
// @Description  Create an account with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      RegisterRequest  true  "Credentials"
// @Success      200       {object}  response.MessageResponse
// @Failure      400       {object}  response.ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.New(http.StatusBadRequest, validation.Message(err), domain.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	audit := security.DefaultLogger()

	user, err := h.authUC.Register(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			audit.LogRegisterDuplicate(ctx, req.Email, c.ClientIP(), requestID(c))
		}
		c.Error(err)
		return
	}

	audit.LogRegisterSuccess(ctx, user.Email, c.ClientIP(), requestID(c))
	response.Message(c, http.StatusOK, "Registration successful.")
}

// Login godoc
// @Summary      Login
// @Description  Exchange email and password for a bearer token valid for the configured TTL
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  LoginResponse
// @Failure      400    {object}  response.ErrorResponse
// @Failure      401    {object}  response.ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.New(http.StatusBadRequest, validation.Message(err), domain.ErrValidation))
		return
	}

	ctx := c.Request.Context()
	audit := security.DefaultLogger()

	session, err := h.authUC.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			audit.LogLoginFailed(ctx, req.Email, c.ClientIP(), c.GetHeader("User-Agent"), requestID(c))
		}
		c.Error(err)
		return
	}

	// The cookie pair serves the browser client; API clients use the token in the body.
	if err := middleware.SetSessionCookies(c, session.Token, session.ExpiresAt, h.secureCookie); err != nil {
		logger.Log.Warn("Failed to set session cookies", "request_id", requestID(c), "error", err)
	}

	audit.LogLoginSuccess(ctx, session.User.ID, c.ClientIP(), requestID(c))
	c.JSON(http.StatusOK, LoginResponse{
		User:  LoginUser{ID: session.User.ID, Email: session.User.Email},
		Token: session.Token,
	})
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}
