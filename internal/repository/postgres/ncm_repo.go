package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"comex/internal/port"
)

type ncmRepo struct {
	db *sqlx.DB
}

// NewNCMRepo creates a new PostgreSQL-backed NCMRepository.
func NewNCMRepo(db *sqlx.DB) port.NCMRepository {
	return &ncmRepo{db: db}
}

func (r *ncmRepo) LoadAll(ctx context.Context) ([]port.NCMEntry, error) {
	var entries []port.NCMEntry
	err := r.db.SelectContext(ctx, &entries,
		`SELECT code, description, ii_rate, ipi_rate
		 FROM ncm_codes
		 WHERE effective_to IS NULL OR effective_to >= CURRENT_DATE
		 ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("ncmRepo.LoadAll: %w", err)
	}
	return entries, nil
}
