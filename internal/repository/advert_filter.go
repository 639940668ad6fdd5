package repository

import (
	"github.com/andckadir/AnimalMarketplace/internal/model"
	"gorm.io/gorm"
)

// AdvertFilter describes an advert search. Nil fields impose no constraint;
// set fields are combined with AND.
type AdvertFilter struct {
	City         *string
	District     *string
	MinPrice     *float64
	MaxPrice     *float64
	AnimalKind   *model.AnimalKind
	Gender       *model.Gender
	MinAge       *int
	MaxAge       *int
	BusinessName *string
}

// Scopes folds the filter into an ordered list of query transformations.
// Every scope is independent of the others, so each predicate can be tested
// on its own and the combined query is always their conjunction.
func (f AdvertFilter) Scopes() []func(*gorm.DB) *gorm.DB {
	var scopes []func(*gorm.DB) *gorm.DB

	if f.City != nil {
		city := *f.City
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("adverts.city = ?", city)
		})
	}
	if f.District != nil {
		district := *f.District
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("adverts.district = ?", district)
		})
	}
	if f.MinPrice != nil {
		minPrice := *f.MinPrice
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("adverts.price >= ?", minPrice)
		})
	}
	if f.MaxPrice != nil {
		maxPrice := *f.MaxPrice
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("adverts.price <= ?", maxPrice)
		})
	}
	if f.AnimalKind != nil {
		kind := *f.AnimalKind
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("animals.kind = ?", kind)
		})
	}
	if f.Gender != nil {
		gender := *f.Gender
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("animals.gender = ?", gender)
		})
	}
	if f.MinAge != nil {
		minAge := *f.MinAge
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("animals.age >= ?", minAge)
		})
	}
	if f.MaxAge != nil {
		maxAge := *f.MaxAge
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("animals.age <= ?", maxAge)
		})
	}
	if f.BusinessName != nil {
		businessName := *f.BusinessName
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("sellers.business_name LIKE ?", "%"+businessName+"%")
		})
	}

	return scopes
}
