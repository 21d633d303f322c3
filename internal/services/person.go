package services

import (
	"context"

	"github.com/apolion-games/mentorhub/types"
)

// PersonRepository defines persistence operations for consolidated person
// records.
type PersonRepository interface {
	List(ctx context.Context, offset, limit int) ([]types.PersonRecord, int, error)
}

// PersonService exposes read access to consolidated person records.
type PersonService struct {
	repo PersonRepository
}

func NewPersonService(repo PersonRepository) *PersonService {
	return &PersonService{repo: repo}
}

func (s *PersonService) List(ctx context.Context, offset, limit int) ([]types.PersonRecord, int, error) {
	return s.repo.List(ctx, offset, limit)
}
