package repository

import (
	"context"
	"errors"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"gorm.io/gorm"
)

// SellerRepository persists seller profiles.
type SellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository creates a seller repository on top of a gorm handle.
func NewSellerRepository(db *gorm.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// Create inserts a new seller profile.
func (r *SellerRepository) Create(ctx context.Context, seller *model.Seller) (*model.Seller, error) {
	if result := r.db.WithContext(ctx).Create(seller); result.Error != nil {
		return nil, result.Error
	}
	return seller, nil
}

// GetByUserID fetches the seller owned by a user. Returns (nil, nil) when
// the user has no seller profile.
func (r *SellerRepository) GetByUserID(ctx context.Context, userID uint) (*model.Seller, error) {
	var seller model.Seller
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&seller)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &seller, nil
}

// ExistsByUserID reports whether the user owns a seller profile.
func (r *SellerRepository) ExistsByUserID(ctx context.Context, userID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Seller{}).Where("user_id = ?", userID).Count(&count)
	return count > 0, result.Error
}

// Update saves the seller's mutable fields.
func (r *SellerRepository) Update(ctx context.Context, seller *model.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

// Delete removes the seller; the seller's adverts cascade, taking their
// animals, images and favorites with them.
func (r *SellerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Seller{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListAdvertIDs returns the ids of all adverts owned by a seller.
func (r *SellerRepository) ListAdvertIDs(ctx context.Context, sellerID uint) ([]uint, error) {
	var ids []uint
	result := r.db.WithContext(ctx).Model(&model.Advert{}).
		Where("seller_id = ?", sellerID).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
