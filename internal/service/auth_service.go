package service

import (
	"context"
	"fmt"

	"github.com/andckadir/AnimalMarketplace/internal/model"
	"github.com/andckadir/AnimalMarketplace/pkg/jwtutil"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Registration carries the sign-up form.
type Registration struct {
	Name     string
	Surname  string
	Email    string
	Phone    string
	Gender   model.Gender
	Password string
}

func (r Registration) validate() error {
	var messages []string

	if r.Name == "" {
		messages = append(messages, "Name cannot be empty")
	} else if len(r.Name) > 50 {
		messages = append(messages, "Name can be at most 50 characters")
	}
	if r.Surname == "" {
		messages = append(messages, "Surname cannot be empty")
	} else if len(r.Surname) > 50 {
		messages = append(messages, "Surname can be at most 50 characters")
	}
	if r.Email == "" {
		messages = append(messages, "Email cannot be empty")
	}
	if len(r.Password) < 6 {
		messages = append(messages, "Password must be at least 6 characters")
	}
	if r.Gender != "" && !r.Gender.IsValid() {
		messages = append(messages, "Please select a valid gender")
	}

	if len(messages) > 0 {
		return NewValidationError(messages...)
	}
	return nil
}

// AuthService handles registration, login and password changes.
type AuthService struct {
	users UserStore
	jwt   *jwtutil.JWTUtil
	log   *zap.Logger
}

// NewAuthService wires an auth service.
func NewAuthService(users UserStore, jwt *jwtutil.JWTUtil, log *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwt, log: log}
}

// Register creates an account and returns it together with a fresh token.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*model.User, string, error) {
	if err := reg.validate(); err != nil {
		return nil, "", err
	}

	taken, err := s.users.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, "", err
	}
	if taken {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Name:         reg.Name,
		Surname:      reg.Surname,
		Email:        reg.Email,
		Phone:        reg.Phone,
		Gender:       reg.Gender,
		PasswordHash: string(hash),
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(created)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user registered", zap.Uint("user_id", created.ID))
	return created, token, nil
}

// Login checks the credentials and returns the account with a fresh token.
// A missing account and a wrong password are reported the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidPassword
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidPassword
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword swaps the account password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return NewValidationError("Password must be at least 6 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	return s.users.Update(ctx, user)
}

func (s *AuthService) issueToken(user *model.User) (string, error) {
	fullName := user.Name + " " + user.Surname
	token, err := s.jwt.GenerateToken(user.Email, user.ID, user.IsAdmin, fullName)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return token, nil
}
