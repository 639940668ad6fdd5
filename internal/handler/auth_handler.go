package handler

import (
	"net/http"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/service"
	"github.com/andckadir/AnimalMarketplace/pkg/logger"
	"github.com/andckadir/AnimalMarketplace/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandler exposes registration, login and password endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		Name     string       `json:"name"`
		Surname  string       `json:"surname"`
		Email    string       `json:"email"`
		Phone    string       `json:"phone"`
		Gender   model.Gender `json:"gender"`
		Password string       `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse register request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.auth.Register(c.Request().Context(), service.Registration{
		Name:     req.Name,
		Surname:  req.Surname,
		Email:    req.Email,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Password: req.Password,
	})
	if err != nil {
		prometheus.RecordAuthError("register_failure")
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"token": token,
		"user":  toUserDTO(user),
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		prometheus.RecordAuthError("login_failure")
		return writeError(c, err)
	}

	log.Info("User logged in", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  toUserDTO(user),
	})
}

func (h *AuthHandler) ChangePassword(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.auth.ChangePassword(c.Request().Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		prometheus.RecordAuthError("password_change_failure")
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}
