package service

import (
	"context"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SellerService manages seller profiles. Deleting a seller takes the
// seller's adverts with it, so the destructive paths ask for the account
// password again.
type SellerService struct {
	sellers  SellerStore
	users    UserStore
	adverts  AdvertStore
	uploader ImageUploader
	log      *zap.Logger
}

// NewSellerService wires a seller service.
func NewSellerService(sellers SellerStore, users UserStore, adverts AdvertStore, uploader ImageUploader, log *zap.Logger) *SellerService {
	return &SellerService{sellers: sellers, users: users, adverts: adverts, uploader: uploader, log: log}
}

// Create opens a seller profile for the user. A user can hold at most one
// profile.
func (s *SellerService) Create(ctx context.Context, userID uint, businessName string) (*model.Seller, error) {
	if businessName == "" {
		return nil, NewValidationError("Business name cannot be empty")
	}
	if len(businessName) > 100 {
		return nil, NewValidationError("Business name can be at most 100 characters")
	}

	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	taken, err := s.sellers.ExistsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSellerExists
	}

	seller := &model.Seller{
		UserID:       userID,
		BusinessName: businessName,
	}
	return s.sellers.Create(ctx, seller)
}

// Get loads the seller profile of a user.
func (s *SellerService) Get(ctx context.Context, userID uint) (*model.Seller, error) {
	seller, err := s.sellers.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return nil, ErrSellerNotFound
	}
	return seller, nil
}

// Update renames the seller's business.
func (s *SellerService) Update(ctx context.Context, userID uint, businessName string) (*model.Seller, error) {
	if businessName == "" {
		return nil, NewValidationError("Business name cannot be empty")
	}
	if len(businessName) > 100 {
		return nil, NewValidationError("Business name can be at most 100 characters")
	}

	seller, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	seller.BusinessName = businessName
	if err := s.sellers.Update(ctx, seller); err != nil {
		return nil, err
	}
	return seller, nil
}

// Delete closes the seller profile and removes every advert it owns,
// cleaning up the hosted images first. The account password must be
// supplied again because the operation is not recoverable.
func (s *SellerService) Delete(ctx context.Context, userID uint, password string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidPassword
	}

	seller, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	advertIDs, err := s.sellers.ListAdvertIDs(ctx, seller.ID)
	if err != nil {
		return err
	}
	for _, advertID := range advertIDs {
		advert, err := s.adverts.GetByIDWithDetails(ctx, advertID)
		if err != nil {
			return err
		}
		if advert == nil {
			continue
		}
		for _, image := range advert.Images {
			s.uploader.Remove(ctx, image.StorageID)
		}
	}

	if err := s.sellers.Delete(ctx, seller.ID); err != nil {
		return err
	}

	s.log.Info("seller deleted",
		zap.Uint("seller_id", seller.ID),
		zap.Uint("user_id", userID),
		zap.Int("adverts", len(advertIDs)))
	return nil
}
