package repository

import (
	"context"
	"errors"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"gorm.io/gorm"
)

// UserRepository persists user accounts and the user-advert favorite
// relation.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository on top of a gorm handle.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns it with the generated id.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if result := r.db.WithContext(ctx).Create(user); result.Error != nil {
		return nil, result.Error
	}
	return user, nil
}

// GetByID fetches a user by id. Returns (nil, nil) when missing.
func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) when missing.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &user, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	return count > 0, result.Error
}

// ExistsByID reports whether a user with the given id exists.
func (r *UserRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&count)
	return count > 0, result.Error
}

// Update saves the user's mutable profile fields.
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the user; the seller profile and favorites cascade.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddFavorite inserts a favorite row.
func (r *UserRepository) AddFavorite(ctx context.Context, favorite *model.Favorite) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

// RemoveFavorite deletes a favorite row.
func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, advertID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND advert_id = ?", userID, advertID).
		Delete(&model.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FavoriteExists reports whether the (user, advert) pair is already
// bookmarked.
func (r *UserRepository) FavoriteExists(ctx context.Context, userID, advertID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND advert_id = ?", userID, advertID).
		Count(&count)
	return count > 0, result.Error
}

// ListFavorites returns the user's favorites ordered by advert id.
func (r *UserRepository) ListFavorites(ctx context.Context, userID uint) ([]model.Favorite, error) {
	var favorites []model.Favorite
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("advert_id ASC").
		Find(&favorites)
	if result.Error != nil {
		return nil, result.Error
	}
	return favorites, nil
}
