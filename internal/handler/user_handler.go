package handler

import (
	"net/http"
	"strconv"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/service"
	"github.com/andckadir/AnimalMarketplace/prometheus"
	"github.com/labstack/echo/v4"
)

// UserHandler exposes profile and favorite endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a user handler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	user, err := h.users.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Name    string       `json:"name"`
		Surname string       `json:"surname"`
		Email   string       `json:"email"`
		Phone   string       `json:"phone"`
		Gender  model.Gender `json:"gender"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.users.Update(c.Request().Context(), claims.UserID, service.ProfileUpdate{
		Name:    req.Name,
		Surname: req.Surname,
		Email:   req.Email,
		Phone:   req.Phone,
		Gender:  req.Gender,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toUserDTO(user))
}

func (h *UserHandler) DeleteProfile(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.users.Delete(c.Request().Context(), claims.UserID, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted"})
}

func (h *UserHandler) AddFavorite(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	advertID, err := strconv.ParseUint(c.Param("advert_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advert id"})
	}

	prometheus.RecordFavoriteOperation("add")
	if err := h.users.AddFavorite(c.Request().Context(), claims.UserID, uint(advertID)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "favorite added"})
}

func (h *UserHandler) RemoveFavorite(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	advertID, err := strconv.ParseUint(c.Param("advert_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advert id"})
	}

	prometheus.RecordFavoriteOperation("remove")
	if err := h.users.RemoveFavorite(c.Request().Context(), claims.UserID, uint(advertID)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "favorite removed"})
}

func (h *UserHandler) ListFavorites(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	prometheus.RecordFavoriteOperation("list")
	adverts, err := h.users.ListFavorites(c.Request().Context(), claims.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAdvertSimpleDTOs(adverts))
}
