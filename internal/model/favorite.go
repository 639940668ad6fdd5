package model

// Favorite is a user's bookmark of an advert. The composite primary key
// makes the (user, advert) pair unique.
type Favorite struct {
	UserID   uint `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	AdvertID uint `json:"advert_id" gorm:"primaryKey;autoIncrement:false"`
}

func (Favorite) TableName() string {
	return "favorites"
}
