package handler

import (
	"net/http"

	"github.com/andckadir/AnimalMarketplace/internal/service"
	"github.com/andckadir/AnimalMarketplace/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SellerHandler exposes seller profile endpoints.
type SellerHandler struct {
	sellers *service.SellerService
}

// NewSellerHandler creates a seller handler.
func NewSellerHandler(sellers *service.SellerService) *SellerHandler {
	return &SellerHandler{sellers: sellers}
}

func (h *SellerHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		BusinessName string `json:"business_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	seller, err := h.sellers.Create(c.Request().Context(), claims.UserID, req.BusinessName)
	if err != nil {
		return writeError(c, err)
	}

	logger.FromEcho(c).Info("Seller profile created",
		zap.Uint("user_id", claims.UserID),
		zap.Uint("seller_id", seller.ID))
	return c.JSON(http.StatusCreated, toSellerDTO(seller))
}

func (h *SellerHandler) Get(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	seller, err := h.sellers.Get(c.Request().Context(), claims.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSellerDTO(seller))
}

func (h *SellerHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req struct {
		BusinessName string `json:"business_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	seller, err := h.sellers.Update(c.Request().Context(), claims.UserID, req.BusinessName)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSellerDTO(seller))
}

func (h *SellerHandler) Delete(c echo.Context) error {
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

	if err := h.sellers.Delete(c.Request().Context(), claims.UserID, req.Password); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "seller profile deleted"})
}
