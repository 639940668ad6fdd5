package repository

import (
	"context"
	"errors"
	"time"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/prometheus"
	"gorm.io/gorm"
)

// AdvertRepository persists adverts, their animals and their images. It is
// the only component allowed to mutate the is_primary flag, so the
// "exactly one primary per advert with images" invariant is enforced here
// rather than by caller discipline.
type AdvertRepository struct {
	db *gorm.DB
}

// NewAdvertRepository creates an advert repository on top of a gorm handle.
func NewAdvertRepository(db *gorm.DB) *AdvertRepository {
	return &AdvertRepository{db: db}
}

// GetByIDWithDetails loads an advert with its ordered images, animal, seller
// and the seller's owning user. Returns (nil, nil) when the advert does not
// exist.
func (r *AdvertRepository) GetByIDWithDetails(ctx context.Context, id uint) (*model.Advert, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var advert model.Advert
	result := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("image_order ASC")
		}).
		Preload("Animal").
		Preload("Seller").
		Preload("Seller.User").
		First(&advert, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &advert, nil
}

// Create inserts the advert together with its animal, embedded address and
// initial image set as one atomic unit and returns the persisted advert.
func (r *AdvertRepository) Create(ctx context.Context, advert *model.Advert, images []model.AdvertImage) (*model.Advert, error) {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	advert.Images = images
	if result := r.db.WithContext(ctx).Create(advert); result.Error != nil {
		return nil, result.Error
	}
	return advert, nil
}

// Update replaces the mutable advert fields (price, description, address)
// and the animal attributes. Images, state and title are not touched here.
// Concurrent updates are last-write-wins.
func (r *AdvertRepository) Update(ctx context.Context, advert *model.Advert) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Advert{}).Where("id = ?", advert.ID).Updates(map[string]interface{}{
			"price":       advert.Price,
			"description": advert.Description,
			"city":        advert.Address.City,
			"district":    advert.Address.District,
		})
		if result.Error != nil {
			return result.Error
		}
		if advert.Animal != nil {
			result = tx.Model(&model.Animal{}).Where("advert_id = ?", advert.ID).Updates(map[string]interface{}{
				"gender": advert.Animal.Gender,
				"age":    advert.Animal.Age,
				"kind":   advert.Animal.Kind,
			})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

// Delete removes the advert; the animal, image and favorite rows go with it
// through the cascade foreign keys. Returns gorm.ErrRecordNotFound when no
// row was deleted.
func (r *AdvertRepository) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := r.db.WithContext(ctx).Delete(&model.Advert{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Exists reports whether an advert with the given id exists.
func (r *AdvertRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Advert{}).Where("id = ?", id).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// AddImages appends image rows to an advert in one insert.
func (r *AdvertRepository) AddImages(ctx context.Context, images []model.AdvertImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// GetImageByID fetches a single image row. Returns (nil, nil) when missing.
func (r *AdvertRepository) GetImageByID(ctx context.Context, imageID uint) (*model.AdvertImage, error) {
	var image model.AdvertImage
	result := r.db.WithContext(ctx).First(&image, imageID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &image, nil
}

// DeleteImage removes a non-primary image and returns the deleted row so the
// caller can clean up the externally stored asset. Returns (nil, nil) when
// the image is missing or is the advert's primary image; the primary check
// is part of the delete condition so a concurrent SetPrimary cannot slip a
// primary image through.
func (r *AdvertRepository) DeleteImage(ctx context.Context, imageID uint) (*model.AdvertImage, error) {
	var deleted *model.AdvertImage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var image model.AdvertImage
		if result := tx.First(&image, imageID); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil
			}
			return result.Error
		}
		if image.IsPrimary {
			return nil
		}
		result := tx.Where("id = ? AND is_primary = ?", imageID, false).Delete(&model.AdvertImage{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			deleted = &image
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// SetPrimary atomically clears the primary flag on all images of the advert
// and sets it on the target image. The target must belong to the advert;
// a mismatched pair returns gorm.ErrRecordNotFound and leaves every flag
// unchanged.
func (r *AdvertRepository) SetPrimary(ctx context.Context, advertID, imageID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if result := tx.Model(&model.AdvertImage{}).
			Where("id = ? AND advert_id = ?", imageID, advertID).
			Count(&count); result.Error != nil {
			return result.Error
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		if result := tx.Model(&model.AdvertImage{}).
			Where("advert_id = ?", advertID).
			Update("is_primary", false); result.Error != nil {
			return result.Error
		}
		return tx.Model(&model.AdvertImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
	})
}

// CountImages returns the number of images stored for an advert.
func (r *AdvertRepository) CountImages(ctx context.Context, advertID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.AdvertImage{}).Where("advert_id = ?", advertID).Count(&count)
	return count, result.Error
}

// MaxImageOrder returns the highest image_order stored for an advert, or 0
// when the advert has no images. Orders are not compacted on delete, so new
// images must continue past the max rather than the count.
func (r *AdvertRepository) MaxImageOrder(ctx context.Context, advertID uint) (int, error) {
	var max int
	result := r.db.WithContext(ctx).Model(&model.AdvertImage{}).
		Where("advert_id = ?", advertID).
		Select("COALESCE(MAX(image_order), 0)").
		Scan(&max)
	return max, result.Error
}

// HasPrimaryImage reports whether the advert currently has a primary image.
func (r *AdvertRepository) HasPrimaryImage(ctx context.Context, advertID uint) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.AdvertImage{}).
		Where("advert_id = ? AND is_primary = ?", advertID, true).
		Count(&count)
	return count > 0, result.Error
}

// FilterAndPaginate applies the conjunction of all set filter fields, counts
// the total matches, then returns one page ordered by advert id ascending.
// Each returned advert carries only its primary image.
func (r *AdvertRepository) FilterAndPaginate(ctx context.Context, filter AdvertFilter, page, pageSize int) ([]model.Advert, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := r.db.WithContext(ctx).Model(&model.Advert{}).
		Joins("JOIN animals ON animals.advert_id = adverts.id").
		Joins("JOIN sellers ON sellers.id = adverts.seller_id")

	for _, scope := range filter.Scopes() {
		query = scope(query)
	}

	var totalCount int64
	if result := query.Count(&totalCount); result.Error != nil {
		return nil, 0, result.Error
	}

	var adverts []model.Advert
	result := query.
		Preload("Animal").
		Preload("Seller").
		Preload("Images", "is_primary = ?", true).
		Order("adverts.id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&adverts)
	if result.Error != nil {
		return nil, 0, result.Error
	}
	return adverts, totalCount, nil
}
