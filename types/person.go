package types

import "time"

// PersonRecord is a consolidated view over person data imported from
// multiple origins. Each field holds one value per contributing origin.
type PersonRecord struct {
	// ID is the unique identifier of the consolidated record (UUID).
	ID string `json:"id" db:"id"`

	// OriginIDs are the source-system identifiers that were merged.
	OriginIDs []string `json:"originIds" db:"origin_ids"`

	// FirstNames and LastNames as reported by each origin.
	FirstNames []string `json:"firstNames" db:"first_names"`
	LastNames  []string `json:"lastNames" db:"last_names"`

	// Telephones and Emails as reported by each origin.
	Telephones []string `json:"telephones" db:"telephones"`
	Emails     []string `json:"emails" db:"emails"`

	// Devices lists the device tags seen for the person.
	Devices []string `json:"userDevices" db:"devices"`

	// Cities and Countries of the person's known locations.
	Cities    []string `json:"locationCity" db:"cities"`
	Countries []string `json:"locationCountry" db:"countries"`

	// CreatedAt is the timestamp when the record was consolidated.
	CreatedAt time.Time `json:"createDate" db:"created_at"`

	Lifecycle
}
