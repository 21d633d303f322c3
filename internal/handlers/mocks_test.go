package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/apolion-games/mentorhub/internal/password"
	"github.com/apolion-games/mentorhub/internal/services"
	"github.com/apolion-games/mentorhub/internal/storage"
	"github.com/apolion-games/mentorhub/internal/store"
	"github.com/apolion-games/mentorhub/internal/token"
	"github.com/apolion-games/mentorhub/types"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type memAccountRepo struct {
	accounts map[string]types.Account
}

func (m *memAccountRepo) GetByID(ctx context.Context, id string) (types.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (m *memAccountRepo) FindByEmail(ctx context.Context, email string) (types.Account, error) {
	if a, ok := m.accounts[email]; ok {
		return a, nil
	}
	return types.Account{}, store.ErrNotFound
}

func (m *memAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	m.accounts[account.Email] = account
	return account, nil
}

func (m *memAccountRepo) Update(ctx context.Context, account types.Account) (types.Account, error) {
	m.accounts[account.Email] = account
	return account, nil
}

func (m *memAccountRepo) SearchByNameOrEmail(ctx context.Context, term string, offset, limit int) ([]types.Account, int, error) {
	var matches []types.Account
	for _, a := range m.accounts {
		matches = append(matches, a)
	}
	return matches, len(matches), nil
}

func (m *memAccountRepo) SetProfilePicture(ctx context.Context, id, key string) error {
	for email, a := range m.accounts {
		if a.ID == id {
			a.ProfilePicture = key
			m.accounts[email] = a
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memAccountRepo) SoftDelete(ctx context.Context, id string) error {
	for email, a := range m.accounts {
		if a.ID == id {
			delete(m.accounts, email)
			return nil
		}
	}
	return store.ErrNotFound
}

type memObjectStorage struct {
	objects map[string][]byte
}

func (m *memObjectStorage) EnsureBucket(ctx context.Context) error {
	return nil
}

func (m *memObjectStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = data
	return nil
}

func (m *memObjectStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjectStorage) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memObjectStorage) Bucket() string {
	return "test-bucket"
}

type memRegistrationStore struct {
	createErr error
	created   []types.Account
}

func (m *memRegistrationStore) CreateWithAuthority(ctx context.Context, account types.Account, authorityName string) (types.Account, error) {
	if m.createErr != nil {
		return types.Account{}, m.createErr
	}
	account.ID = "acc-new"
	account.Authorities = []types.Authority{{ID: "auth-new", AccountID: account.ID, Name: authorityName}}
	m.created = append(m.created, account)
	return account, nil
}

type memPersonRepo struct {
	records []types.PersonRecord
}

func (m *memPersonRepo) List(ctx context.Context, offset, limit int) ([]types.PersonRecord, int, error) {
	return m.records, len(m.records), nil
}

// testEnv wires a router the same way the server does, over in-memory
// stores.
type testEnv struct {
	router   *chi.Mux
	codec    *token.Codec
	verifier password.Verifier
	accounts *memAccountRepo
	regStore *memRegistrationStore
	persons  *memPersonRepo
	avatars  *memObjectStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return buildTestEnv(t, nil)
}

// newTestEnvWithAvatars wires an in-memory object store so the avatar and
// account-deletion paths can be exercised.
func newTestEnvWithAvatars(t *testing.T) *testEnv {
	t.Helper()
	avatars := &memObjectStorage{objects: map[string][]byte{}}
	env := buildTestEnv(t, avatars)
	env.avatars = avatars
	return env
}

func buildTestEnv(t *testing.T, avatars storage.ObjectStorage) *testEnv {
	t.Helper()

	codec, err := token.NewCodec(testSecret)
	require.NoError(t, err)

	verifier := password.NewVerifier()
	accounts := &memAccountRepo{accounts: map[string]types.Account{}}
	regStore := &memRegistrationStore{}
	persons := &memPersonRepo{}

	accountService := services.NewAccountService(accounts, verifier)
	registrationService := services.NewRegistrationService(regStore, verifier, nil)
	personService := services.NewPersonService(persons)

	pipeline := NewPipeline(codec, accountService, nil)

	router := chi.NewRouter()
	router.Use(pipeline.Stages()...)
	router.Get("/healthz", Healthz)
	router.Get("/", Root)
	router.Route("/public/app/v1", func(r chi.Router) {
		PublicRouter(r, registrationService, accountService)
	})
	router.Route("/app/v1", func(r chi.Router) {
		UserRouter(r, accountService, avatars)
		PersonRouter(r, personService)
	})

	return &testEnv{
		router:   router,
		codec:    codec,
		verifier: verifier,
		accounts: accounts,
		regStore: regStore,
		persons:  persons,
	}
}

// seedAccount stores an account whose credential is the given plaintext.
func (e *testEnv) seedAccount(t *testing.T, id, email, plaintext string, authorities ...string) types.Account {
	t.Helper()
	hash, err := e.verifier.Hash(plaintext)
	require.NoError(t, err)

	var grants []types.Authority
	for _, name := range authorities {
		grants = append(grants, types.Authority{AccountID: id, Name: name})
	}
	account := types.Account{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Salt:         "stored-salt",
		Name:         "Seeded User",
		AccountType:  "mentee",
		Enabled:      true,
		CreatedAt:    time.Now(),
		Authorities:  grants,
	}
	e.accounts.accounts[email] = account
	return account
}

// tokenFor issues a valid token for the given identity.
func (e *testEnv) tokenFor(t *testing.T, email string, authorities ...string) string {
	t.Helper()
	signed, err := e.codec.Issue(email, authorities, time.Now())
	require.NoError(t, err)
	return signed
}

func withToken(r *http.Request, signed string) *http.Request {
	r.Header.Set(TokenHeader, signed)
	return r
}
