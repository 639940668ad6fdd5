package handler

import (
	"time"

	"github.com/andckadir/AnimalMarketplace/internal/model"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PagedResult is the envelope every list endpoint returns.
type PagedResult struct {
	Data       interface{} `json:"data"`
	PageNumber int         `json:"pageNumber"`
	PageSize   int         `json:"pageSize"`
	TotalCount int64       `json:"totalCount"`
	TotalPages int         `json:"totalPages"`
}

// NewPagedResult wraps one page of data with its pagination metadata.
func NewPagedResult(data interface{}, page, pageSize int, totalCount int64) PagedResult {
	return PagedResult{
		Data:       data,
		PageNumber: page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}

// normalizePaging clamps the requested page and page size into their valid
// ranges. Out-of-range values fall back rather than fail.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// totalPages is the page count needed to hold totalCount items.
func totalPages(totalCount int64, pageSize int) int {
	if totalCount == 0 {
		return 0
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}

// AdvertImageDTO is one image of an advert detail response.
type AdvertImageDTO struct {
	ID        uint   `json:"id"`
	URL       string `json:"url"`
	Order     int    `json:"order"`
	IsPrimary bool   `json:"isPrimary"`
}

// AdvertSimpleDTO is the compact advert shape used by list endpoints. Only
// the primary image travels with it.
type AdvertSimpleDTO struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	Price           float64           `json:"price"`
	State           model.AdvertState `json:"state"`
	City            string            `json:"city"`
	District        string            `json:"district"`
	Kind            model.AnimalKind  `json:"kind"`
	Gender          model.Gender      `json:"gender"`
	Age             int               `json:"age"`
	BusinessName    string            `json:"businessName"`
	PrimaryImageURL string            `json:"primaryImageUrl"`
}

// AdvertDetailsDTO is the full advert shape with every image attached.
type AdvertDetailsDTO struct {
	ID           uint              `json:"id"`
	Date         time.Time         `json:"date"`
	State        model.AdvertState `json:"state"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Price        float64           `json:"price"`
	City         string            `json:"city"`
	District     string            `json:"district"`
	Kind         model.AnimalKind  `json:"kind"`
	Gender       model.Gender      `json:"gender"`
	Age          int               `json:"age"`
	SellerID     uint              `json:"sellerId"`
	BusinessName string            `json:"businessName"`
	SellerName   string            `json:"sellerName,omitempty"`
	SellerPhone  string            `json:"sellerPhone,omitempty"`
	Images       []AdvertImageDTO  `json:"images"`
}

// UserDTO is the account shape returned by profile endpoints.
type UserDTO struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Surname      string       `json:"surname"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Gender       model.Gender `json:"gender"`
	IsAdmin      bool         `json:"isAdmin"`
	RegisterDate time.Time    `json:"registerDate"`
}

// SellerDTO is the seller profile shape.
type SellerDTO struct {
	ID           uint   `json:"id"`
	UserID       uint   `json:"userId"`
	BusinessName string `json:"businessName"`
}

func toUserDTO(user *model.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Surname:      user.Surname,
		Email:        user.Email,
		Phone:        user.Phone,
		Gender:       user.Gender,
		IsAdmin:      user.IsAdmin,
		RegisterDate: user.RegisterDate,
	}
}

func toSellerDTO(seller *model.Seller) SellerDTO {
	return SellerDTO{
		ID:           seller.ID,
		UserID:       seller.UserID,
		BusinessName: seller.BusinessName,
	}
}

func toAdvertSimpleDTO(advert *model.Advert) AdvertSimpleDTO {
	dto := AdvertSimpleDTO{
		ID:       advert.ID,
		Title:    advert.Title,
		Price:    advert.Price,
		State:    advert.State,
		City:     advert.Address.City,
		District: advert.Address.District,
	}
	if advert.Animal != nil {
		dto.Kind = advert.Animal.Kind
		dto.Gender = advert.Animal.Gender
		dto.Age = advert.Animal.Age
	}
	if advert.Seller != nil {
		dto.BusinessName = advert.Seller.BusinessName
	}
	if primary := advert.PrimaryImage(); primary != nil {
		dto.PrimaryImageURL = primary.URL
	}
	return dto
}

func toAdvertSimpleDTOs(adverts []model.Advert) []AdvertSimpleDTO {
	dtos := make([]AdvertSimpleDTO, 0, len(adverts))
	for i := range adverts {
		dtos = append(dtos, toAdvertSimpleDTO(&adverts[i]))
	}
	return dtos
}

func toAdvertDetailsDTO(advert *model.Advert) AdvertDetailsDTO {
	dto := AdvertDetailsDTO{
		ID:          advert.ID,
		Date:        advert.Date,
		State:       advert.State,
		Title:       advert.Title,
		Description: advert.Description,
		Price:       advert.Price,
		City:        advert.Address.City,
		District:    advert.Address.District,
		SellerID:    advert.SellerID,
		Images:      make([]AdvertImageDTO, 0, len(advert.Images)),
	}
	if advert.Animal != nil {
		dto.Kind = advert.Animal.Kind
		dto.Gender = advert.Animal.Gender
		dto.Age = advert.Animal.Age
	}
	if advert.Seller != nil {
		dto.BusinessName = advert.Seller.BusinessName
		if advert.Seller.User != nil {
			dto.SellerName = advert.Seller.User.Name + " " + advert.Seller.User.Surname
			dto.SellerPhone = advert.Seller.User.Phone
		}
	}
	for _, image := range advert.Images {
		dto.Images = append(dto.Images, AdvertImageDTO{
			ID:        image.ID,
			URL:       image.URL,
			Order:     image.Order,
			IsPrimary: image.IsPrimary,
		})
	}
	return dto
}
