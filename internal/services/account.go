package services

import (
	"context"
	"errors"

	"github.com/apolion-games/mentorhub/internal/password"
	"github.com/apolion-games/mentorhub/internal/store"
	"github.com/apolion-games/mentorhub/types"
)

// ErrBadCredentials is returned when authentication fails, regardless of
// whether the account exists or the password mismatched.
var ErrBadCredentials = errors.New("bad credentials")

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (types.Account, error)
	FindByEmail(ctx context.Context, email string) (types.Account, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	Update(ctx context.Context, account types.Account) (types.Account, error)
	SearchByNameOrEmail(ctx context.Context, term string, offset, limit int) ([]types.Account, int, error)
	SetProfilePicture(ctx context.Context, id, key string) error
	SoftDelete(ctx context.Context, id string) error
}

// AccountService encapsulates account use-cases.
type AccountService struct {
	repo     AccountRepository
	verifier password.Verifier
}

func NewAccountService(repo AccountRepository, verifier password.Verifier) *AccountService {
	return &AccountService{repo: repo, verifier: verifier}
}

// Authenticate verifies the email/password pair against the store and
// returns the matching account with its authorities. Unknown email,
// disabled account, and password mismatch all collapse into
// ErrBadCredentials.
func (s *AccountService) Authenticate(ctx context.Context, email, plaintext string) (types.Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Account{}, ErrBadCredentials
		}
		return types.Account{}, err
	}
	if !account.Enabled {
		return types.Account{}, ErrBadCredentials
	}
	if !s.verifier.Verify(plaintext, account.PasswordHash) {
		return types.Account{}, ErrBadCredentials
	}
	return account, nil
}

func (s *AccountService) GetByID(ctx context.Context, id string) (types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) FindByEmail(ctx context.Context, email string) (types.Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *AccountService) Update(ctx context.Context, account types.Account) (types.Account, error) {
	return s.repo.Update(ctx, account)
}

func (s *AccountService) Search(ctx context.Context, term string, offset, limit int) ([]types.Account, int, error) {
	return s.repo.SearchByNameOrEmail(ctx, term, offset, limit)
}

func (s *AccountService) SetProfilePicture(ctx context.Context, id, key string) error {
	return s.repo.SetProfilePicture(ctx, id, key)
}

func (s *AccountService) SoftDelete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}
