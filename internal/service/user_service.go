package service

import (
	"context"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ProfileUpdate carries the editable account fields.
type ProfileUpdate struct {
	Name    string
	Surname string
	Email   string
	Phone   string
	Gender  model.Gender
}

func (p ProfileUpdate) validate() error {
	var messages []string

	if p.Name == "" {
		messages = append(messages, "Name cannot be empty")
	} else if len(p.Name) > 50 {
		messages = append(messages, "Name can be at most 50 characters")
	}
	if p.Surname == "" {
		messages = append(messages, "Surname cannot be empty")
	} else if len(p.Surname) > 50 {
		messages = append(messages, "Surname can be at most 50 characters")
	}
	if p.Email == "" {
		messages = append(messages, "Email cannot be empty")
	}
	if p.Gender != "" && !p.Gender.IsValid() {
		messages = append(messages, "Please select a valid gender")
	}

	if len(messages) > 0 {
		return NewValidationError(messages...)
	}
	return nil
}

// UserService manages account profiles and favorites.
type UserService struct {
	users   UserStore
	adverts AdvertStore
	log     *zap.Logger
}

// NewUserService wires a user service.
func NewUserService(users UserStore, adverts AdvertStore, log *zap.Logger) *UserService {
	return &UserService{users: users, adverts: adverts, log: log}
}

// Get loads a user by id.
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update replaces the user's profile fields. Changing the email keeps the
// uniqueness guarantee.
func (s *UserService) Update(ctx context.Context, id uint, update ProfileUpdate) (*model.User, error) {
	if err := update.validate(); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Email != user.Email {
		taken, err := s.users.ExistsByEmail(ctx, update.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	user.Name = update.Name
	user.Surname = update.Surname
	user.Email = update.Email
	user.Phone = update.Phone
	if update.Gender != "" {
		user.Gender = update.Gender
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account after re-checking the password. The seller
// profile, adverts and favorites go with it through the foreign keys.
func (s *UserService) Delete(ctx context.Context, id uint, password string) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidPassword
	}
	return s.users.Delete(ctx, id)
}

// AddFavorite marks an advert as a favorite of the user. Both sides must
// exist and the pair must not already be present.
func (s *UserService) AddFavorite(ctx context.Context, userID, advertID uint) error {
	userExists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return err
	}
	if !userExists {
		return ErrUserNotFound
	}

	advertExists, err := s.adverts.Exists(ctx, advertID)
	if err != nil {
		return err
	}
	if !advertExists {
		return ErrAdvertNotFound
	}

	already, err := s.users.FavoriteExists(ctx, userID, advertID)
	if err != nil {
		return err
	}
	if already {
		return ErrFavoriteExists
	}

	return s.users.AddFavorite(ctx, &model.Favorite{UserID: userID, AdvertID: advertID})
}

// RemoveFavorite unmarks an advert.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, advertID uint) error {
	exists, err := s.users.FavoriteExists(ctx, userID, advertID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFavoriteMissing
	}
	return s.users.RemoveFavorite(ctx, userID, advertID)
}

// ListFavorites returns the user's favorite adverts with their details.
// Favorites whose advert disappeared in the meantime are skipped.
func (s *UserService) ListFavorites(ctx context.Context, userID uint) ([]model.Advert, error) {
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	favorites, err := s.users.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}

	adverts := make([]model.Advert, 0, len(favorites))
	for _, favorite := range favorites {
		advert, err := s.adverts.GetByIDWithDetails(ctx, favorite.AdvertID)
		if err != nil {
			return nil, err
		}
		if advert == nil {
			continue
		}
		adverts = append(adverts, *advert)
	}
	return adverts, nil
}
