package model

import (
	"time"
)

// AdvertImage is the metadata of one stored image. StorageID is the external
// object identifier used when removing the asset from the image host.
// At most one image per advert carries IsPrimary; the repository is the only
// place allowed to flip that flag.
type AdvertImage struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	URL        string    `json:"url" gorm:"type:varchar(500);not null"`
	StorageID  string    `json:"storage_id" gorm:"type:varchar(200)"`
	Order      int       `json:"order" gorm:"column:image_order;default:1;not null"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false;not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"autoCreateTime"`
	AdvertID   uint      `json:"advert_id" gorm:"index;not null"`
}

func (AdvertImage) TableName() string {
	return "advert_images"
}
