package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService checks credentials for the single admin account. The
// configured password is hashed once at construction so the plaintext is
// not kept around for the lifetime of the process.
type AuthService struct {
	login string
	hash  []byte
}

func NewAuthService(login, password string) (*AuthService, error) {
	if login == "" || password == "" {
		return nil, errors.New("admin login and password must be configured")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AuthService{login: login, hash: hash}, nil
}

func (s *AuthService) Authenticate(username, password string) error {
	if username != s.login {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
