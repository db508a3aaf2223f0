package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bsm-kit/ticketview-service/internal/domain"
)

// PersonRepository resolves the people tickets relate to.
type PersonRepository interface {
	GetByID(ctx context.Context, orgID, id string) (*domain.Person, error)
	ListByIDs(ctx context.Context, orgID string, ids []string) ([]domain.Person, error)
}

type personRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository instantiates repository.
func NewPersonRepository(pool *pgxpool.Pool) PersonRepository {
	return &personRepository{pool: pool}
}

const personColumns = `id, first_name, last_name, display_name, email`

func (r *personRepository) GetByID(ctx context.Context, orgID, id string) (*domain.Person, error) {
	const query = `SELECT ` + personColumns + ` FROM people WHERE org_id=$1 AND id=$2`
	var person domain.Person
	if err := r.pool.QueryRow(ctx, query, orgID, id).Scan(
		&person.ID,
		&person.FirstName,
		&person.LastName,
		&person.DisplayName,
		&person.Email,
	); err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *personRepository) ListByIDs(ctx context.Context, orgID string, ids []string) ([]domain.Person, error) {
	if len(ids) == 0 {
		return []domain.Person{}, nil
	}
	const query = `SELECT ` + personColumns + ` FROM people WHERE org_id=$1 AND id = ANY($2)`
	rows, err := r.pool.Query(ctx, query, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPeople(rows)
}

func scanPeople(rows pgx.Rows) ([]domain.Person, error) {
	var result []domain.Person
	for rows.Next() {
		var person domain.Person
		if err := rows.Scan(
			&person.ID,
			&person.FirstName,
			&person.LastName,
			&person.DisplayName,
			&person.Email,
		); err != nil {
			return nil, err
		}
		result = append(result, person)
	}
	return result, rows.Err()
}
