package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/covrank/internal/core/domain"
	"github.com/custodia-labs/covrank/internal/core/ports/driven"
)

// ==================== Company Store ====================

// companyStore implements driven.CompanyStore.
type companyStore struct {
	store *Store
}

var _ driven.CompanyStore = (*companyStore)(nil)

const companyColumns = `id, name, type, created_at, updated_at`

// FindOrCreate returns the company with the name and type, creating it when absent.
func (s *companyStore) FindOrCreate(ctx context.Context, name string, companyType domain.CompanyType) (*domain.Company, error) {
	now := formatTime(s.store.now())
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO companies (name, type, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name, type) DO NOTHING
	`, name, string(companyType), now, now)
	if err != nil {
		return nil, fmt.Errorf("inserting company: %w", err)
	}

	row := s.store.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name = ? AND type = ?`,
		name, string(companyType))
	c, err := scanCompany(row)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", notFound(err))
	}
	return c, nil
}

// Get retrieves a company by ID.
func (s *companyStore) Get(ctx context.Context, id int64) (*domain.Company, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	c, err := scanCompany(row)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// List returns companies ordered by name.
func (s *companyStore) List(ctx context.Context, companyType domain.CompanyType) ([]domain.Company, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE (? = '' OR type = ?)
		ORDER BY name, id
	`, string(companyType), string(companyType))
	if err != nil {
		return nil, fmt.Errorf("querying companies: %w", err)
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCompany(row rowScanner) (*domain.Company, error) {
	var (
		c                    domain.Company
		companyType          string
		createdAt, updatedAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &companyType, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	c.Type = domain.CompanyType(companyType)

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
