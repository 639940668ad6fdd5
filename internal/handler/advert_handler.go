package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/andckadir/AnimalMarketplace/internal/imaging"
	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/repository"
	"github.com/andckadir/AnimalMarketplace/internal/service"
	"github.com/andckadir/AnimalMarketplace/pkg/logger"
	"github.com/andckadir/AnimalMarketplace/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AdvertHandler exposes advert browsing, lifecycle and image endpoints.
type AdvertHandler struct {
	adverts *service.AdvertService
}

// NewAdvertHandler creates an advert handler.
func NewAdvertHandler(adverts *service.AdvertService) *AdvertHandler {
	return &AdvertHandler{adverts: adverts}
}

// Create handles a multipart form: the advert fields plus one or more
// "images" file parts.
func (h *AdvertHandler) Create(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	log := logger.FromEcho(c)
	prometheus.RecordAdvertOperation("create")

	draft, err := bindAdvertDraft(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	files, err := formImages(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart form"})
	}

	result, err := h.adverts.Create(c.Request().Context(), claims.UserID, draft, files)
	if err != nil {
		if result != nil && len(result.Rejected) > 0 {
			prometheus.RecordImageUpload("rejected", len(result.Rejected))
		}
		return writeError(c, err)
	}

	prometheus.RecordImageUpload("stored", len(result.Advert.Images))
	prometheus.RecordImageUpload("rejected", len(result.Rejected))
	prometheus.RecordImageUpload("failed", len(result.UploadErrors))

	log.Info("Advert created",
		zap.Uint("advert_id", result.Advert.ID),
		zap.Int("images", len(result.Advert.Images)))

	return c.JSON(http.StatusCreated, echo.Map{
		"advert":        toAdvertDetailsDTO(result.Advert),
		"rejected":      result.Rejected,
		"upload_errors": result.UploadErrors,
	})
}

func (h *AdvertHandler) Get(c echo.Context) error {
	advertID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advert id"})
	}

	advert, err := h.adverts.Get(c.Request().Context(), advertID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAdvertDetailsDTO(advert))
}

// Filter returns one page of adverts matching the filter posted in the
// request body. Paging comes from the query string.
func (h *AdvertHandler) Filter(c echo.Context) error {
	prometheus.RecordAdvertOperation("filter")

	filter, err := bindAdvertFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	page, pageSize = normalizePaging(page, pageSize)

	adverts, totalCount, err := h.adverts.Filter(c.Request().Context(), filter, page, pageSize)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, NewPagedResult(toAdvertSimpleDTOs(adverts), page, pageSize, totalCount))
}

func (h *AdvertHandler) Update(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	prometheus.RecordAdvertOperation("update")

	advertID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advert id"})
	}

	var req struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Price       float64          `json:"price"`
		City        string           `json:"city"`
		District    string           `json:"district"`
		Gender      model.Gender     `json:"gender"`
		Age         int              `json:"age"`
		Kind        model.AnimalKind `json:"kind"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	advert, err := h.adverts.Update(c.Request().Context(), claims.UserID, claims.IsAdmin, advertID, service.AdvertDraft{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		City:        req.City,
		District:    req.District,
		Gender:      req.Gender,
		Age:         req.Age,
		Kind:        req.Kind,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toAdvertDetailsDTO(advert))
}

func (h *AdvertHandler) Delete(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	prometheus.RecordAdvertOperation("delete")

	advertID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advert id"})
	}

	if err := h.adverts.Delete(c.Request().Context(), claims.UserID, claims.IsAdmin, advertID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "advert deleted"})
}

// AddImages appends images to an existing advert from a multipart form.
func (h *AdvertHandler) AddImages(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	prometheus.RecordAdvertOperation("add_images")

	advertID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid advert id"})
	}

	files, err := formImages(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid multipart form"})
	}

	result, err := h.adverts.AddImages(c.Request().Context(), claims.UserID, advertID, files)
	if err != nil {
		if result != nil && len(result.Rejected) > 0 {
			prometheus.RecordImageUpload("rejected", len(result.Rejected))
		}
		return writeError(c, err)
	}

	prometheus.RecordImageUpload("stored", result.Added)
	prometheus.RecordImageUpload("rejected", len(result.Rejected))
	prometheus.RecordImageUpload("failed", len(result.UploadErrors))

	return c.JSON(http.StatusOK, echo.Map{
		"added":         result.Added,
		"rejected":      result.Rejected,
		"upload_errors": result.UploadErrors,
	})
}

func (h *AdvertHandler) DeleteImage(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	prometheus.RecordAdvertOperation("delete_image")

	imageID, err := pathID(c, "image_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image id"})
	}

	if err := h.adverts.DeleteImage(c.Request().Context(), claims.UserID, claims.IsAdmin, imageID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "image deleted"})
}

func (h *AdvertHandler) SetPrimaryImage(c echo.Context) error {
	claims, err := currentClaims(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	prometheus.RecordAdvertOperation("set_primary_image")

	imageID, err := pathID(c, "image_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid image id"})
	}

	if err := h.adverts.SetPrimaryImage(c.Request().Context(), claims.UserID, claims.IsAdmin, imageID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "primary image updated"})
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// bindAdvertDraft reads the advert fields from the multipart form values.
func bindAdvertDraft(c echo.Context) (service.AdvertDraft, error) {
	draft := service.AdvertDraft{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		City:        c.FormValue("city"),
		District:    c.FormValue("district"),
		Gender:      model.Gender(c.FormValue("gender")),
		Kind:        model.AnimalKind(c.FormValue("kind")),
	}

	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return draft, errors.New("invalid price")
		}
		draft.Price = price
	}
	if v := c.FormValue("age"); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil {
			return draft, errors.New("invalid age")
		}
		draft.Age = age
	}
	return draft, nil
}

// formImages converts the multipart "images" parts into upload descriptors.
func formImages(c echo.Context) ([]imaging.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	headers := form.File["images"]
	files := make([]imaging.File, 0, len(headers))
	for _, header := range headers {
		files = append(files, fileFromHeader(header))
	}
	return files, nil
}

func fileFromHeader(header *multipart.FileHeader) imaging.File {
	return imaging.File{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// bindAdvertFilter reads the optional filter fields from the JSON body.
// An empty body means no constraints.
func bindAdvertFilter(c echo.Context) (repository.AdvertFilter, error) {
	var req struct {
		City         *string  `json:"city"`
		District     *string  `json:"district"`
		BusinessName *string  `json:"businessName"`
		Kind         *string  `json:"kind"`
		Gender       *string  `json:"gender"`
		MinPrice     *float64 `json:"minPrice"`
		MaxPrice     *float64 `json:"maxPrice"`
		MinAge       *int     `json:"minAge"`
		MaxAge       *int     `json:"maxAge"`
	}

	var filter repository.AdvertFilter
	if err := c.Bind(&req); err != nil {
		return filter, errors.New("invalid filter body")
	}

	filter.City = req.City
	filter.District = req.District
	filter.BusinessName = req.BusinessName
	filter.MinPrice = req.MinPrice
	filter.MaxPrice = req.MaxPrice
	filter.MinAge = req.MinAge
	filter.MaxAge = req.MaxAge

	if req.Kind != nil {
		kind := model.AnimalKind(*req.Kind)
		if !kind.IsValid() {
			return filter, errors.New("invalid animal kind")
		}
		filter.AnimalKind = &kind
	}
	if req.Gender != nil {
		gender := model.Gender(*req.Gender)
		if !gender.IsValid() {
			return filter, errors.New("invalid gender")
		}
		filter.Gender = &gender
	}

	return filter, nil
}
