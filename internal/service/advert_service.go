package service

import (
	"context"
	"fmt"
	"time"

	"github.com/andckadir/AnimalMarketplace/internal/imaging"
	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/repository"
	"go.uber.org/zap"
)

// AdvertDraft carries the user-supplied advert fields for create and update.
type AdvertDraft struct {
	Title       string
	Description string
	Price       float64
	City        string
	District    string
	Gender      model.Gender
	Age         int
	Kind        model.AnimalKind
}

// Validate checks the draft against the field constraints and returns nil
// when everything is in range.
func (d AdvertDraft) Validate() error {
	var messages []string

	if d.Price < 0 {
		messages = append(messages, "Price cannot be less than 0")
	}
	if d.Title == "" {
		messages = append(messages, "Title cannot be empty")
	} else if len(d.Title) > 50 {
		messages = append(messages, "Title can be at most 50 characters")
	}
	if d.Description == "" {
		messages = append(messages, "Description cannot be empty")
	} else if len(d.Description) > 500 {
		messages = append(messages, "Description can be at most 500 characters")
	}
	if d.City == "" {
		messages = append(messages, "City cannot be empty")
	} else if len(d.City) > 50 {
		messages = append(messages, "City can be at most 50 characters")
	}
	if d.District == "" {
		messages = append(messages, "District cannot be empty")
	} else if len(d.District) > 50 {
		messages = append(messages, "District can be at most 50 characters")
	}
	if d.Age < 0 || d.Age > 100 {
		messages = append(messages, "Age must be between 0 and 100")
	}
	if !d.Gender.IsValid() {
		messages = append(messages, "Please select a valid gender")
	}
	if !d.Kind.IsValid() {
		messages = append(messages, "Please select a valid animal kind")
	}

	if len(messages) > 0 {
		return NewValidationError(messages...)
	}
	return nil
}

// CreateAdvertResult is the outcome of an advert creation: the persisted
// advert plus the per-file rejections and upload errors that did not stop
// the operation.
type CreateAdvertResult struct {
	Advert       *model.Advert
	Rejected     []imaging.Rejection
	UploadErrors []string
}

// AddImagesResult is the outcome of adding images to an existing advert.
type AddImagesResult struct {
	Added        int
	Rejected     []imaging.Rejection
	UploadErrors []string
}

// AdvertService orchestrates advert and image operations across the stores
// and the external image host.
type AdvertService struct {
	adverts  AdvertStore
	sellers  SellerStore
	uploader ImageUploader
	log      *zap.Logger
}

// NewAdvertService wires an advert service.
func NewAdvertService(adverts AdvertStore, sellers SellerStore, uploader ImageUploader, log *zap.Logger) *AdvertService {
	return &AdvertService{adverts: adverts, sellers: sellers, uploader: uploader, log: log}
}

// Create validates the draft and the uploaded files, pushes the valid files
// to the image host and persists the advert with everything that made it.
// The operation fails only when the caller is not a seller, the draft is
// invalid, or not a single image survives validation and upload.
func (s *AdvertService) Create(ctx context.Context, userID uint, draft AdvertDraft, files []imaging.File) (*CreateAdvertResult, error) {
	seller, err := s.sellers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrNotASeller
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, NewValidationError("You must upload at least 1 image")
	}
	if len(files) > imaging.MaxImagesPerAdvert {
		return nil, NewValidationError(fmt.Sprintf("You can upload a maximum of %d images", imaging.MaxImagesPerAdvert))
	}

	accepted, rejected := imaging.ValidateBatch(files)
	if len(accepted) == 0 {
		return &CreateAdvertResult{Rejected: rejected}, ErrNoValidImages
	}

	uploaded, uploadErrors := s.uploader.UploadBatch(ctx, accepted, 0, true)
	if len(uploaded) == 0 {
		return &CreateAdvertResult{Rejected: rejected, UploadErrors: uploadErrors}, ErrNoImagesUploaded
	}

	advert := &model.Advert{
		Date:        time.Now().UTC(),
		State:       model.AdvertStateActive,
		Price:       draft.Price,
		Title:       draft.Title,
		Description: draft.Description,
		SellerID:    seller.ID,
		Address: model.Address{
			City:     draft.City,
			District: draft.District,
		},
		Animal: &model.Animal{
			Gender: draft.Gender,
			Age:    draft.Age,
			Kind:   draft.Kind,
		},
	}

	created, err := s.adverts.Create(ctx, advert, uploaded)
	if err != nil {
		return nil, err
	}

	detailed, err := s.adverts.GetByIDWithDetails(ctx, created.ID)
	if err != nil {
		return nil, err
	}

	s.log.Info("advert created",
		zap.Uint("advert_id", created.ID),
		zap.Uint("seller_id", seller.ID),
		zap.Int("images", len(uploaded)),
		zap.Int("rejected", len(rejected)))

	return &CreateAdvertResult{
		Advert:       detailed,
		Rejected:     rejected,
		UploadErrors: uploadErrors,
	}, nil
}

// Get loads an advert with full details.
func (s *AdvertService) Get(ctx context.Context, id uint) (*model.Advert, error) {
	advert, err := s.adverts.GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if advert == nil {
		return nil, ErrAdvertNotFound
	}
	return advert, nil
}

// Filter returns one page of adverts matching the filter plus the total
// match count.
func (s *AdvertService) Filter(ctx context.Context, filter repository.AdvertFilter, page, pageSize int) ([]model.Advert, int64, error) {
	return s.adverts.FilterAndPaginate(ctx, filter, page, pageSize)
}

// Update replaces the advert's mutable fields. Only the owning seller or an
// admin may update.
func (s *AdvertService) Update(ctx context.Context, userID uint, isAdmin bool, advertID uint, draft AdvertDraft) (*model.Advert, error) {
	advert, err := s.ownedAdvert(ctx, userID, isAdmin, advertID)
	if err != nil {
		return nil, err
	}

	if err := draft.Validate(); err != nil {
		return nil, err
	}

	advert.Price = draft.Price
	advert.Description = draft.Description
	advert.Address.City = draft.City
	advert.Address.District = draft.District
	if advert.Animal != nil {
		advert.Animal.Gender = draft.Gender
		advert.Animal.Age = draft.Age
		advert.Animal.Kind = draft.Kind
	}

	if err := s.adverts.Update(ctx, advert); err != nil {
		return nil, err
	}
	return advert, nil
}

// Delete removes the advert and everything hanging off it. Remote assets
// are removed best-effort before the rows go; a host-side failure does not
// block the local delete.
func (s *AdvertService) Delete(ctx context.Context, userID uint, isAdmin bool, advertID uint) error {
	advert, err := s.ownedAdvert(ctx, userID, isAdmin, advertID)
	if err != nil {
		return err
	}

	for _, image := range advert.Images {
		s.uploader.Remove(ctx, image.StorageID)
	}

	if err := s.adverts.Delete(ctx, advertID); err != nil {
		return err
	}

	s.log.Info("advert deleted",
		zap.Uint("advert_id", advertID),
		zap.Int("images", len(advert.Images)))
	return nil
}

// AddImages uploads new images for an advert. The whole batch is refused
// when it would push the advert past the image cap; nothing is uploaded in
// that case.
func (s *AdvertService) AddImages(ctx context.Context, userID uint, advertID uint, files []imaging.File) (*AddImagesResult, error) {
	if _, err := s.ownedAdvert(ctx, userID, false, advertID); err != nil {
		return nil, err
	}

	if len(files) == 0 {
		return nil, NewValidationError("You must upload at least 1 image")
	}

	count, err := s.adverts.CountImages(ctx, advertID)
	if err != nil {
		return nil, err
	}
	if int(count)+len(files) > imaging.MaxImagesPerAdvert {
		return nil, ErrImageLimit
	}

	accepted, rejected := imaging.ValidateBatch(files)
	if len(accepted) == 0 {
		return &AddImagesResult{Rejected: rejected}, ErrNoValidImages
	}

	hasPrimary, err := s.adverts.HasPrimaryImage(ctx, advertID)
	if err != nil {
		return nil, err
	}
	maxOrder, err := s.adverts.MaxImageOrder(ctx, advertID)
	if err != nil {
		return nil, err
	}
	uploaded, uploadErrors := s.uploader.UploadBatch(ctx, accepted, maxOrder, !hasPrimary)
	if len(uploaded) == 0 {
		return &AddImagesResult{Rejected: rejected, UploadErrors: uploadErrors}, ErrNoImagesUploaded
	}

	for i := range uploaded {
		uploaded[i].AdvertID = advertID
	}
	if err := s.adverts.AddImages(ctx, uploaded); err != nil {
		return nil, err
	}

	return &AddImagesResult{
		Added:        len(uploaded),
		Rejected:     rejected,
		UploadErrors: uploadErrors,
	}, nil
}

// DeleteImage removes a non-primary image and its stored asset. Deleting
// the primary image is refused so an advert with images never loses its
// cover photo.
func (s *AdvertService) DeleteImage(ctx context.Context, userID uint, isAdmin bool, imageID uint) error {
	image, err := s.adverts.GetImageByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	if _, err := s.ownedAdvert(ctx, userID, isAdmin, image.AdvertID); err != nil {
		return err
	}

	if image.IsPrimary {
		return ErrPrimaryImage
	}

	deleted, err := s.adverts.DeleteImage(ctx, imageID)
	if err != nil {
		return err
	}
	if deleted == nil {
		// The row vanished or turned primary between the check and the
		// delete; either way nothing was removed.
		return ErrPrimaryImage
	}

	s.uploader.Remove(ctx, deleted.StorageID)
	return nil
}

// SetPrimaryImage promotes an image to be its advert's primary image.
func (s *AdvertService) SetPrimaryImage(ctx context.Context, userID uint, isAdmin bool, imageID uint) error {
	image, err := s.adverts.GetImageByID(ctx, imageID)
	if err != nil {
		return err
	}
	if image == nil {
		return ErrImageNotFound
	}

	if _, err := s.ownedAdvert(ctx, userID, isAdmin, image.AdvertID); err != nil {
		return err
	}

	return s.adverts.SetPrimary(ctx, image.AdvertID, image.ID)
}

// ownedAdvert loads an advert with details and verifies the caller owns it
// (or is an admin).
func (s *AdvertService) ownedAdvert(ctx context.Context, userID uint, isAdmin bool, advertID uint) (*model.Advert, error) {
	advert, err := s.adverts.GetByIDWithDetails(ctx, advertID)
	if err != nil {
		return nil, err
	}
	if advert == nil {
		return nil, ErrAdvertNotFound
	}
	if isAdmin {
		return advert, nil
	}
	if advert.Seller == nil || advert.Seller.UserID != userID {
		return nil, ErrNotOwner
	}
	return advert, nil
}
