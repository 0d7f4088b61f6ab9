package services

import (
	"errors"

	"marketlane/internal/domain"
	"marketlane/internal/store"
)

var (
	ErrBadCreds   = errors.New("invalid email or password")
	ErrEmailTaken = errors.New("email already registered")
)

// AuthService fronts registration and login. Credentials are compared in
// plaintext: auth is a placeholder surface, not a security design, and
// the stored record keeps the password exactly as supplied. Responses
// never carry it (the field is not serialized).
type AuthService struct {
	Store store.Storage
}

func NewAuthService(st store.Storage) *AuthService { return &AuthService{Store: st} }

// Register rejects an email already in use before creating the account;
// the store itself enforces no uniqueness.
func (s *AuthService) Register(in store.NewUser) (*domain.User, error) {
	_, err := s.Store.GetUserByEmail(in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case errors.Is(err, store.ErrNotFound):
		// free to register
	default:
		return nil, err
	}
	return s.Store.CreateUser(in)
}

func (s *AuthService) Login(email, password string) (*domain.User, error) {
	u, err := s.Store.GetUserByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if u.Password != password {
		return nil, ErrBadCreds
	}
	return u, nil
}
