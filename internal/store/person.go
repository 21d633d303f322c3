package store

import (
	"context"
	"database/sql"

	"github.com/apolion-games/mentorhub/types"
	"github.com/lib/pq"
)

// PersonRepository handles persistence for consolidated person records.
type PersonRepository struct {
	db *sql.DB
}

func NewPersonRepository(db *sql.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// List returns a page of active consolidated records with the total count.
func (r *PersonRepository) List(ctx context.Context, offset, limit int) ([]types.PersonRecord, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 10
	}

	const countQuery = `SELECT COUNT(1) FROM person_records WHERE NOT is_deleted`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, origin_ids, first_names, last_names, telephones, emails, devices, cities, countries, created_at, is_deleted, deleted_at
		FROM person_records
		WHERE NOT is_deleted
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]types.PersonRecord, 0, limit)
	for rows.Next() {
		var record types.PersonRecord
		if err := rows.Scan(
			&record.ID,
			pq.Array(&record.OriginIDs),
			pq.Array(&record.FirstNames),
			pq.Array(&record.LastNames),
			pq.Array(&record.Telephones),
			pq.Array(&record.Emails),
			pq.Array(&record.Devices),
			pq.Array(&record.Cities),
			pq.Array(&record.Countries),
			&record.CreatedAt,
			&record.Deleted,
			&record.DeletedAt,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
