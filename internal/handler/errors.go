package handler

import (
	"errors"
	"net/http"

	"github.com/andckadir/AnimalMarketplace/internal/service"
	"github.com/andckadir/AnimalMarketplace/pkg/jwtutil"
	"github.com/andckadir/AnimalMarketplace/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// writeError translates a service error into the matching HTTP response.
// Unrecognized errors are logged and reported as internal failures without
// leaking detail.
func writeError(c echo.Context, err error) error {
	if ve, ok := service.AsValidation(err); ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": ve.Messages})
	}

	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSellerNotFound),
		errors.Is(err, service.ErrAdvertNotFound),
		errors.Is(err, service.ErrImageNotFound),
		errors.Is(err, service.ErrFavoriteMissing):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})

	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSellerExists),
		errors.Is(err, service.ErrFavoriteExists):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidPassword):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})

	case errors.Is(err, service.ErrNotASeller),
		errors.Is(err, service.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})

	case errors.Is(err, service.ErrPrimaryImage),
		errors.Is(err, service.ErrNoValidImages),
		errors.Is(err, service.ErrNoImagesUploaded),
		errors.Is(err, service.ErrImageLimit):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	logger.FromEcho(c).Error("Request failed", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// currentClaims returns the token claims the auth middleware stored on the
// request.
func currentClaims(c echo.Context) (*jwtutil.UserClaims, error) {
	claims, ok := c.Get("user").(*jwtutil.UserClaims)
	if !ok {
		return nil, errors.New("missing authentication claims")
	}
	return claims, nil
}
