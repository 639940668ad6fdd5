package model

// AnimalKind is stored as a string column.
type AnimalKind string

const (
	AnimalKindCat   AnimalKind = "Cat"
	AnimalKindDog   AnimalKind = "Dog"
	AnimalKindBird  AnimalKind = "Bird"
	AnimalKindFish  AnimalKind = "Fish"
	AnimalKindOther AnimalKind = "Other"
)

// IsValid reports whether k is a known animal kind.
func (k AnimalKind) IsValid() bool {
	switch k {
	case AnimalKindCat, AnimalKindDog, AnimalKindBird, AnimalKindFish, AnimalKindOther:
		return true
	}
	return false
}

// Animal holds the animal attributes of an advert. Exactly one animal row
// exists per advert.
type Animal struct {
	ID       uint       `json:"id" gorm:"primaryKey"`
	Gender   Gender     `json:"gender" gorm:"type:varchar(6);not null"`
	Age      int        `json:"age" gorm:"not null;check:age >= 0 AND age <= 100"`
	Kind     AnimalKind `json:"kind" gorm:"type:varchar(10);not null"`
	AdvertID uint       `json:"advert_id" gorm:"uniqueIndex;not null"`
}

func (Animal) TableName() string {
	return "animals"
}
