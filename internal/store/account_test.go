package store

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/apolion-games/mentorhub/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountCols = []string{
	"id", "email", "password_hash", "salt", "name", "account_type",
	"mentee_count", "profile_picture", "enabled", "created_at",
	"is_deleted", "deleted_at",
}

var authorityCols = []string{
	"id", "account_id", "name", "created_at", "is_deleted", "deleted_at",
}

func accountRow(id, email string) []driver.Value {
	return []driver.Value{
		id, email, "{bcrypt}$2a$10$hash", "salt", "Test User", "mentee",
		0, "", true, time.Now(), false, nil,
	}
}

func TestFindByEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("a@apolion.games").
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(accountRow("acc-1", "a@apolion.games")...))
	mock.ExpectQuery("SELECT (.+) FROM authorities").
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(authorityCols).
			AddRow("auth-1", "acc-1", "ROLE_MENTEE", time.Now(), false, nil))

	r := NewAccountRepository(db)
	account, err := r.FindByEmail(context.Background(), "a@apolion.games")
	require.NoError(t, err)

	assert.Equal(t, "acc-1", account.ID)
	assert.Equal(t, []string{"ROLE_MENTEE"}, account.AuthorityNames())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmail_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("nobody@apolion.games").
		WillReturnRows(sqlmock.NewRows(accountCols))

	r := NewAccountRepository(db)
	_, err := r.FindByEmail(context.Background(), "nobody@apolion.games")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(accountCols).AddRow(accountRow("acc-1", "a@apolion.games")...))
	mock.ExpectQuery("SELECT (.+) FROM authorities").
		WithArgs("acc-1").
		WillReturnRows(sqlmock.NewRows(authorityCols).
			AddRow("auth-1", "acc-1", "ROLE_MENTEE", time.Now(), false, nil))

	r := NewAccountRepository(db)
	account, err := r.GetByID(context.Background(), "acc-1")
	require.NoError(t, err)

	assert.Equal(t, "a@apolion.games", account.Email)
	assert.Equal(t, []string{"ROLE_MENTEE"}, account.AuthorityNames())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("acc-missing").
		WillReturnRows(sqlmock.NewRows(accountCols))

	r := NewAccountRepository(db)
	_, err := r.GetByID(context.Background(), "acc-missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO accounts").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("acc-1"))

	r := NewAccountRepository(db)
	created, err := r.Create(context.Background(), types.Account{
		Email:        "a@apolion.games",
		PasswordHash: "{bcrypt}$2a$10$hash",
		Name:         "Test User",
		AccountType:  "mentee",
		Enabled:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "acc-1", created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE accounts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	r := NewAccountRepository(db)
	updated, err := r.Update(context.Background(), types.Account{ID: "acc-1", Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE accounts").
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewAccountRepository(db)
	_, err := r.Update(context.Background(), types.Account{ID: "acc-missing"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET is_deleted").
		WithArgs(sqlmock.AnyArg(), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE authorities SET is_deleted").
		WithArgs(sqlmock.AnyArg(), "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r := NewAccountRepository(db)
	require.NoError(t, r.SoftDelete(context.Background(), "acc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET is_deleted").
		WithArgs(sqlmock.AnyArg(), "acc-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	r := NewAccountRepository(db)
	err := r.SoftDelete(context.Background(), "acc-missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByNameOrEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%apolion%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("%apolion%", 0, 50).
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow(accountRow("acc-1", "a@apolion.games")...).
			AddRow(accountRow("acc-2", "b@apolion.games")...))

	r := NewAccountRepository(db)
	accounts, total, err := r.SearchByNameOrEmail(context.Background(), "apolion", 0, 50)
	require.NoError(t, err)

	assert.Equal(t, 2, total)
	require.Len(t, accounts, 2)
	assert.Equal(t, "a@apolion.games", accounts[0].Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchByNameOrEmail_ClampsPaging(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%x%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("%x%", 0, 50).
		WillReturnRows(sqlmock.NewRows(accountCols))

	r := NewAccountRepository(db)
	_, _, err := r.SearchByNameOrEmail(context.Background(), "x", -10, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetProfilePicture_NotFound(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	mock.ExpectExec("UPDATE accounts SET profile_picture").
		WithArgs("avatars/acc-1", "acc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	r := NewAccountRepository(db)
	err := r.SetProfilePicture(context.Background(), "acc-1", "avatars/acc-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
