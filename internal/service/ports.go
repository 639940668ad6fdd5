package service

import (
	"context"

	"github.com/andckadir/AnimalMarketplace/internal/imaging"
	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/internal/repository"
)

// AdvertStore is the persistence surface the services need for adverts and
// their images. *repository.AdvertRepository implements it.
type AdvertStore interface {
	GetByIDWithDetails(ctx context.Context, id uint) (*model.Advert, error)
	Create(ctx context.Context, advert *model.Advert, images []model.AdvertImage) (*model.Advert, error)
	Update(ctx context.Context, advert *model.Advert) error
	Delete(ctx context.Context, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	AddImages(ctx context.Context, images []model.AdvertImage) error
	GetImageByID(ctx context.Context, imageID uint) (*model.AdvertImage, error)
	DeleteImage(ctx context.Context, imageID uint) (*model.AdvertImage, error)
	SetPrimary(ctx context.Context, advertID, imageID uint) error
	CountImages(ctx context.Context, advertID uint) (int64, error)
	MaxImageOrder(ctx context.Context, advertID uint) (int, error)
	HasPrimaryImage(ctx context.Context, advertID uint) (bool, error)
	FilterAndPaginate(ctx context.Context, filter repository.AdvertFilter, page, pageSize int) ([]model.Advert, int64, error)
}

// UserStore is the persistence surface for users and favorites.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint) error
	AddFavorite(ctx context.Context, favorite *model.Favorite) error
	RemoveFavorite(ctx context.Context, userID, advertID uint) error
	FavoriteExists(ctx context.Context, userID, advertID uint) (bool, error)
	ListFavorites(ctx context.Context, userID uint) ([]model.Favorite, error)
}

// SellerStore is the persistence surface for seller profiles.
// *repository.SellerRepository implements it.
type SellerStore interface {
	Create(ctx context.Context, seller *model.Seller) (*model.Seller, error)
	GetByUserID(ctx context.Context, userID uint) (*model.Seller, error)
	ExistsByUserID(ctx context.Context, userID uint) (bool, error)
	Update(ctx context.Context, seller *model.Seller) error
	Delete(ctx context.Context, id uint) error
	ListAdvertIDs(ctx context.Context, sellerID uint) ([]uint, error)
}

// ImageUploader pushes validated files to the external image host.
// *imaging.Uploader implements it.
type ImageUploader interface {
	UploadBatch(ctx context.Context, files []imaging.File, startOrder int, needPrimary bool) ([]model.AdvertImage, []string)
	Remove(ctx context.Context, storageID string)
}
