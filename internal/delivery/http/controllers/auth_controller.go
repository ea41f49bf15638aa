package controllers

import (
	"log/slog"
	"net/http"
	"time"

	h "eventbooking/internal/delivery/http/helpers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/domain"
)

// SessionCookie describes the HttpOnly cookie that carries the session token.
type SessionCookie struct {
	Name   string
	Secure bool
}

func (c SessionCookie) set(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RegisterRequest is the request body for POST /api/auth/register.
type RegisterRequest struct {
	FirstName       string `json:"first_name" form:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" form:"last_name" validate:"required,max=100"`
	Phone           string `json:"phone" form:"phone" validate:"max=30"`
	Email           string `json:"email" form:"email" validate:"required,email,max=254"`
	Password        string `json:"password" form:"password" validate:"required,max=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required,eqfield=Password"`
}

func (req RegisterRequest) input() domain.RegisterInput {
	return domain.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
	}
}

// LoginRequest is the request body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// RegisterSuccessResponse is the success response envelope for POST /api/auth/register (201).
type RegisterSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

// LoginSuccessResponse is the success response envelope for POST /api/auth/login (200).
type LoginSuccessResponse struct {
	Data  *domain.Session `json:"data"`
	Error *h.APIError     `json:"error"`
}

// MessageSuccessResponse is the success response envelope for endpoints that only confirm.
type MessageSuccessResponse struct {
	Data  h.MessageResponse `json:"data"`
	Error *h.APIError       `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.UserService
	Cookie  SessionCookie
}

func NewAuthController(logger *slog.Logger, svc domain.UserService, cookie SessionCookie) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
		Cookie:  cookie,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates a user account. The email must not be registered yet and password must equal confirm_password.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} controllers.RegisterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.Register(r.Context(), req.input())
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Returns a session token and sets it as an HttpOnly cookie. Send it back as the cookie or as "Authorization: Bearer <token>".
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.LoginSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	session, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	c.Cookie.set(w, session.Token, session.ExpiresAt)
	h.WriteJSONSuccess(w, http.StatusOK, session)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current session token and clears the session cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r, c.Cookie.Name); token != "" {
		if err := c.Service.Logout(r.Context(), token); err != nil {
			writeServiceError(c.Logger, w, r, err)
			return
		}
	}
	c.Cookie.clear(w)
	h.WriteJSONSuccess(w, http.StatusOK, h.MessageResponse{Message: "logged out"})
}
