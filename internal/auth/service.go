package auth

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match a stored credential. Unknown username and wrong password are
// deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// Service implements registration, login, and per-request authentication.
// It is the only component that mutates credential state; everything else
// it does is a read-only decision.
type Service struct {
	repo       CredentialRepository
	issuer     *TokenIssuer
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(repo CredentialRepository, issuer *TokenIssuer, bcryptCost int) *Service {
	return &Service{
		repo:       repo,
		issuer:     issuer,
		bcryptCost: bcryptCost,
	}
}

// Register hashes the password, stores the credential, and issues a token
// carrying the registered role. Returns ErrDuplicateUsername if the username
// is taken.
func (s *Service) Register(ctx context.Context, username, password string, role Role) (string, error) {
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return "", err
	}

	cred := &Credential{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, cred); err != nil {
		return "", err
	}

	return s.issuer.Issue(username, role)
}

// Login verifies the password against the stored hash and issues a token
// carrying the stored role. The token's role claim is a snapshot at issuance.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	cred, err := s.repo.Find(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.issuer.Issue(cred.Username, cred.Role)
}

// Authenticate resolves a bearer token to a Principal. The token is verified
// and its subject looked up in the credential store; any failure along the
// way fails closed with ErrInvalidToken.
func (s *Service) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims, err := s.issuer.Verify(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}

	cred, err := s.repo.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("resolving principal: %w", err)
	}

	return &Principal{Username: cred.Username, Role: cred.Role}, nil
}
