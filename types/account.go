package types

import "time"

// Lifecycle tracks soft deletion for a record. A record is visible as long
// as Deleted is false; DeletedAt is only meaningful once it is set.
type Lifecycle struct {
	// Deleted marks the record as soft-deleted.
	Deleted bool `json:"-" db:"is_deleted"`

	// DeletedAt is the timestamp of the soft deletion, nil while active.
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// Active reports whether the record has not been soft-deleted.
func (l Lifecycle) Active() bool {
	return !l.Deleted
}

// Account represents an identity record in the system.
type Account struct {
	// ID is the unique identifier of the account (UUID).
	ID string `json:"id" db:"id"`

	// Email is the unique login identifier. Uniqueness is enforced among
	// accounts that have not been soft-deleted.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the tagged hash of the account credential.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// Salt is the client-supplied salt handed out before login so the
	// client can pre-hash its credential.
	Salt string `json:"-" db:"salt"`

	// Name is the account's display name.
	Name string `json:"name" db:"name"`

	// AccountType tags the account with the role category it registered
	// under ("mentor", "mentee", "admin").
	AccountType string `json:"accountType" db:"account_type"`

	// MenteeCount is the number of mentees currently assigned to a mentor
	// account. Always zero at registration.
	MenteeCount int `json:"menteeCount" db:"mentee_count"`

	// ProfilePicture is the object-storage key of the account's avatar,
	// empty if none was uploaded.
	ProfilePicture string `json:"profilePicture" db:"profile_picture"`

	// Enabled indicates whether the account may authenticate.
	Enabled bool `json:"enabled" db:"enabled"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Lifecycle

	// Authorities is the ordered collection of grants attached to the
	// account. Populated by the stores, never shared between accounts.
	Authorities []Authority `json:"authorities,omitempty" db:"-"`
}

// AuthorityNames returns the names of all active authorities on the account.
func (a Account) AuthorityNames() []string {
	names := make([]string, 0, len(a.Authorities))
	for _, auth := range a.Authorities {
		if auth.Active() {
			names = append(names, auth.Name)
		}
	}
	return names
}

// Authority is a named grant owned by exactly one account.
type Authority struct {
	// ID is the unique identifier of the authority (UUID).
	ID string `json:"id" db:"id"`

	// AccountID references the owning account.
	AccountID string `json:"-" db:"account_id"`

	// Name is the grant name, e.g. "ROLE_MENTOR".
	Name string `json:"name" db:"name"`

	// CreatedAt is the timestamp when the grant was attached.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	Lifecycle
}
