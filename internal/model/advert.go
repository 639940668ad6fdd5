package model

import (
	"time"
)

// AdvertState is stored as a string column.
type AdvertState string

const (
	AdvertStateActive  AdvertState = "Active"
	AdvertStatePassive AdvertState = "Passive"
	AdvertStateSold    AdvertState = "Sold"
)

// Address is a value object embedded into the adverts table.
type Address struct {
	City     string `json:"city" gorm:"type:varchar(50);not null"`
	District string `json:"district" gorm:"type:varchar(50);not null"`
}

// Advert is a single marketplace listing for one animal. The animal record
// and the initial image set are created atomically with the advert; deleting
// the advert cascades to the animal, its images and any favorites.
type Advert struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	Date        time.Time   `json:"date" gorm:"autoCreateTime"`
	State       AdvertState `json:"state" gorm:"type:varchar(15);default:'Active'"`
	Price       float64     `json:"price" gorm:"type:decimal(18,2);not null;check:price >= 0"`
	Title       string      `json:"title" gorm:"type:varchar(50);not null"`
	Description string      `json:"description" gorm:"type:varchar(500);not null"`
	SellerID    uint        `json:"seller_id" gorm:"index;not null"`
	Address     Address     `json:"address" gorm:"embedded"`

	// Relations
	Animal    *Animal       `json:"animal,omitempty" gorm:"foreignKey:AdvertID;constraint:OnDelete:CASCADE"`
	Seller    *Seller       `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Images    []AdvertImage `json:"images,omitempty" gorm:"foreignKey:AdvertID;constraint:OnDelete:CASCADE"`
	Favorites []Favorite    `json:"favorites,omitempty" gorm:"foreignKey:AdvertID;constraint:OnDelete:CASCADE"`
}

func (Advert) TableName() string {
	return "adverts"
}

// PrimaryImage returns the advert's primary image, or nil when the advert
// has no images loaded.
func (a *Advert) PrimaryImage() *AdvertImage {
	for i := range a.Images {
		if a.Images[i].IsPrimary {
			return &a.Images[i]
		}
	}
	return nil
}
