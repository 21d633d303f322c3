package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerBody(t *testing.T, email, password, name string) *bytes.Reader {
	t.Helper()
	payload, err := json.Marshal(RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Salt:     "client-salt",
	})
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func TestAddMentee_Created(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/public/app/v1/addMentee",
		registerBody(t, "new@apolion.games", "hunter2", "New Mentee"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var result OperationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)

	require.Len(t, env.regStore.created, 1)
	created := env.regStore.created[0]
	assert.Equal(t, "new@apolion.games", created.Email)
	assert.Equal(t, "mentee", created.AccountType)
	assert.Equal(t, []string{"ROLE_MENTEE"}, created.AuthorityNames())
}

func TestAddMentor_GrantsMentorAuthority(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/public/app/v1/addMentor",
		registerBody(t, "mentor@apolion.games", "hunter2", "New Mentor"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, env.regStore.created, 1)
	assert.Equal(t, []string{"ROLE_MENTOR"}, env.regStore.created[0].AuthorityNames())
}

func TestAddMentee_InvalidEmail(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/public/app/v1/addMentee",
		registerBody(t, "throwaway@mailinator.com", "hunter2", "Sneaky"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, env.regStore.created)
}

func TestAddMentee_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/public/app/v1/addMentee",
		bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUserSalt_Known(t *testing.T) {
	env := newTestEnv(t)
	env.seedAccount(t, "acc-1", "a@apolion.games", "password", "ROLE_MENTEE")

	req := httptest.NewRequest(http.MethodGet, "/public/app/v1/getUserSalt?email=a@apolion.games", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stored-salt", rec.Body.String())
}

func TestGetUserSalt_Unknown(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/public/app/v1/getUserSalt?email=nobody@apolion.games", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNewUserSalt(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/public/app/v1/getNewUserSalt", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
