package model

// Seller is a user-owned profile entitling its holder to create adverts.
// One seller per user, enforced by the unique index on UserID.
type Seller struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	UserID       uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	BusinessName string `json:"business_name" gorm:"type:varchar(100);not null"`

	// Relations
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Adverts []Advert `json:"adverts,omitempty" gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE"`
}

func (Seller) TableName() string {
	return "sellers"
}
