package port

import "context"

// NCMEntry is one row of the harmonized tariff (NCM) table.
type NCMEntry struct {
	Code        string  `db:"code"`
	Description string  `db:"description"`
	IIRate      float64 `db:"ii_rate"`
	IPIRate     float64 `db:"ipi_rate"`
}

// NCMRepository defines the contract for tariff table access.
type NCMRepository interface {
	LoadAll(ctx context.Context) ([]NCMEntry, error)
}
