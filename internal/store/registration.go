package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/apolion-games/mentorhub/types"
	"github.com/google/uuid"
)

// RegistrationStore persists a new account together with its initial
// authority in a single transaction, so a failure at any step leaves no
// orphaned account behind.
type RegistrationStore struct {
	db *sql.DB
}

func NewRegistrationStore(db *sql.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

// Step identifies where inside the registration transaction a failure
// happened. The transaction rolls back either way; the step only feeds the
// workflow's outcome code.
type Step int

const (
	StepAccount Step = iota
	StepAuthority
	StepAttach
)

// StepError wraps a persistence failure with the step it occurred in.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("registration step %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// CreateWithAuthority inserts the account and an authority named after the
// requested role, attached to the account, atomically. The returned account
// carries its generated IDs and the attached authority.
func (s *RegistrationStore) CreateWithAuthority(ctx context.Context, account types.Account, authorityName string) (types.Account, error) {
	now := time.Now()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Account{}, &StepError{Step: StepAccount, Err: err}
	}
	defer tx.Rollback()

	var persistedID string
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO accounts (id, email, password_hash, salt, name, account_type, mentee_count, profile_picture, enabled, created_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)
		RETURNING id`,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.Salt,
		account.Name,
		account.AccountType,
		account.MenteeCount,
		account.ProfilePicture,
		account.Enabled,
		account.CreatedAt,
	).Scan(&persistedID); err != nil {
		return types.Account{}, &StepError{Step: StepAccount, Err: err}
	}
	if persistedID == "" {
		return types.Account{}, &StepError{Step: StepAccount, Err: fmt.Errorf("no account id returned")}
	}

	authority := types.Authority{
		ID:        uuid.NewString(),
		AccountID: persistedID,
		Name:      authorityName,
		CreatedAt: now,
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO authorities (id, account_id, name, created_at, is_deleted)
		VALUES ($1, $2, $3, $4, FALSE)`,
		authority.ID,
		authority.AccountID,
		authority.Name,
		authority.CreatedAt,
	); err != nil {
		return types.Account{}, &StepError{Step: StepAuthority, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return types.Account{}, &StepError{Step: StepAttach, Err: err}
	}

	account.ID = persistedID
	account.Authorities = []types.Authority{authority}
	return account, nil
}
