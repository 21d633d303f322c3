package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/apolion-games/mentorhub/types"
	"github.com/google/uuid"
)

// AccountRepository handles persistence for accounts and their authorities.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, salt, name, account_type, mentee_count, profile_picture, enabled, created_at, is_deleted, deleted_at`

func scanAccount(row interface{ Scan(...any) error }) (types.Account, error) {
	var account types.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.Salt,
		&account.Name,
		&account.AccountType,
		&account.MenteeCount,
		&account.ProfilePicture,
		&account.Enabled,
		&account.CreatedAt,
		&account.Deleted,
		&account.DeletedAt,
	)
	return account, err
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1 AND NOT is_deleted`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	if account.Authorities, err = r.authorities(ctx, account.ID); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

// FindByEmail returns the active account with the given email, including
// its authorities.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (types.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1 AND NOT is_deleted`
	account, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Account{}, ErrNotFound
		}
		return types.Account{}, err
	}
	if account.Authorities, err = r.authorities(ctx, account.ID); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) Create(ctx context.Context, account types.Account) (types.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now()
	}

	const query = `
		INSERT INTO accounts (id, email, password_hash, salt, name, account_type, mentee_count, profile_picture, enabled, created_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
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
	).Scan(&account.ID); err != nil {
		return types.Account{}, err
	}
	return account, nil
}

func (r *AccountRepository) Update(ctx context.Context, account types.Account) (types.Account, error) {
	const query = `
		UPDATE accounts
		SET email = $1,
			password_hash = $2,
			salt = $3,
			name = $4,
			account_type = $5,
			mentee_count = $6,
			profile_picture = $7,
			enabled = $8
		WHERE id = $9 AND NOT is_deleted`
	result, err := r.db.ExecContext(
		ctx,
		query,
		account.Email,
		account.PasswordHash,
		account.Salt,
		account.Name,
		account.AccountType,
		account.MenteeCount,
		account.ProfilePicture,
		account.Enabled,
		account.ID,
	)
	if err != nil {
		return types.Account{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Account{}, err
	}
	if affected == 0 {
		return types.Account{}, ErrNotFound
	}
	return account, nil
}

// SearchByNameOrEmail returns active accounts whose name or email contains
// the search term, with the total number of matches.
func (r *AccountRepository) SearchByNameOrEmail(ctx context.Context, term string, offset, limit int) ([]types.Account, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 50
	}
	pattern := "%" + term + "%"

	const countQuery = `
		SELECT COUNT(1) FROM accounts
		WHERE (name ILIKE $1 OR email ILIKE $1) AND NOT is_deleted`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE (name ILIKE $1 OR email ILIKE $1) AND NOT is_deleted
		ORDER BY created_at, id
		OFFSET $2 LIMIT $3`
	rows, err := r.db.QueryContext(ctx, listQuery, pattern, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	accounts := make([]types.Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, err
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// SetProfilePicture records the object-storage key of the account's avatar.
func (r *AccountRepository) SetProfilePicture(ctx context.Context, id, key string) error {
	const query = `
		UPDATE accounts SET profile_picture = $1
		WHERE id = $2 AND NOT is_deleted`
	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the account and its authorities deleted.
func (r *AccountRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE accounts SET is_deleted = TRUE, deleted_at = $1
		WHERE id = $2 AND NOT is_deleted`, now, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE authorities SET is_deleted = TRUE, deleted_at = $1
		WHERE account_id = $2 AND NOT is_deleted`, now, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *AccountRepository) authorities(ctx context.Context, accountID string) ([]types.Authority, error) {
	const query = `
		SELECT id, account_id, name, created_at, is_deleted, deleted_at
		FROM authorities
		WHERE account_id = $1 AND NOT is_deleted
		ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authorities []types.Authority
	for rows.Next() {
		var authority types.Authority
		if err := rows.Scan(
			&authority.ID,
			&authority.AccountID,
			&authority.Name,
			&authority.CreatedAt,
			&authority.Deleted,
			&authority.DeletedAt,
		); err != nil {
			return nil, err
		}
		authorities = append(authorities, authority)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return authorities, nil
}
