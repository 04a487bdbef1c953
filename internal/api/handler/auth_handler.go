package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskbox/todo-api/internal/api/middleware"
	"github.com/taskbox/todo-api/internal/core/domain"
	"github.com/taskbox/todo-api/internal/core/ports"
)

// AuthHandler handles registration, login, logout and the current-user route.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register creates a new account.
//
// @Summary      Register a new user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      200   {object}  domain.PublicUser
// @Failure      400   {object}  errorsResponse
// @Router       /users [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}
	if err := c.Validate(&req); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, errorsResponse{Errors: ve.Fields})
		}
		return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{"invalid payload"}})
	}

	user, err := h.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusBadRequest, errorsResponse{Errors: []string{err.Error()}})
		}
		return err
	}

	return c.JSON(http.StatusOK, user.PublicView())
}

// Login authenticates credentials and issues a token. The token is returned
// both in the body and in the Auth response header. Every failure is a bare
// 401 so nothing distinguishes a wrong password from an unknown email.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   "unauthorized"
// @Router       /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	tok, user, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return err
	}

	c.Response().Header().Set(middleware.HeaderAuth, tok)
	return c.JSON(http.StatusOK, loginResponse{Token: tok, User: user.PublicView()})
}

// Logout revokes the presented token for the remainder of its lifetime.
//
// @Summary      Logout
// @Tags         users
// @Security     AuthToken
// @Success      204  "logged out"
// @Failure      401  "unauthorized"
// @Router       /users/login [delete]
func (h *AuthHandler) Logout(c echo.Context) error {
	tok, ok := ctxToken(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	if err := h.auth.Logout(c.Request().Context(), tok); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			return c.NoContent(http.StatusUnauthorized)
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated caller's public view.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     AuthToken
// @Success      200  {object}  domain.PublicUser
// @Failure      401  "unauthorized"
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := ctxUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	return c.JSON(http.StatusOK, user.PublicView())
}
