// internal/records/postgres.go
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/saadbelcaidx/connector-os-sub007/internal/common/errors"
	"github.com/saadbelcaidx/connector-os-sub007/internal/models"
)

const (
	demandBySegmentQuery = `SELECT domain, company, contact, email, title, industry, signals, metadata
FROM demand_records WHERE segment = $1 ORDER BY id`

	supplyBySegmentQuery = `SELECT domain, company, contact, email, title, capability, target_profile, metadata
FROM supply_records WHERE segment = $1 ORDER BY id`
)

// PostgresStore reads demand and supply records from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// DemandBySegment returns the demand records of one segment in insertion
// order.
func (s *PostgresStore) DemandBySegment(ctx context.Context, segment string) ([]models.DemandRecord, error) {
	rows, err := s.db.QueryContext(ctx, demandBySegmentQuery, segment)
	if err != nil {
		return nil, queryError(ctx, "demand", err)
	}
	defer rows.Close()

	var out []models.DemandRecord
	for rows.Next() {
		var (
			rec               models.DemandRecord
			signals, metadata []byte
		)
		if err := rows.Scan(&rec.Domain, &rec.Company, &rec.Contact, &rec.Email, &rec.Title, &rec.Industry, &signals, &metadata); err != nil {
			return nil, errors.NewQueryExecutionFailedError("demand", err)
		}
		if err := decodeJSONB(signals, &rec.Signals); err != nil {
			return nil, errors.NewQueryExecutionFailedError("demand", fmt.Errorf("signals for %s: %w", rec.Company, err))
		}
		if err := decodeJSONB(metadata, &rec.Metadata); err != nil {
			return nil, errors.NewQueryExecutionFailedError("demand", fmt.Errorf("metadata for %s: %w", rec.Company, err))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "demand", err)
	}
	return out, nil
}

// SupplyBySegment returns the supply records of one segment in insertion
// order.
func (s *PostgresStore) SupplyBySegment(ctx context.Context, segment string) ([]models.SupplyRecord, error) {
	rows, err := s.db.QueryContext(ctx, supplyBySegmentQuery, segment)
	if err != nil {
		return nil, queryError(ctx, "supply", err)
	}
	defer rows.Close()

	var out []models.SupplyRecord
	for rows.Next() {
		var (
			rec      models.SupplyRecord
			metadata []byte
		)
		if err := rows.Scan(&rec.Domain, &rec.Company, &rec.Contact, &rec.Email, &rec.Title, &rec.Capability, &rec.TargetProfile, &metadata); err != nil {
			return nil, errors.NewQueryExecutionFailedError("supply", err)
		}
		if err := decodeJSONB(metadata, &rec.Metadata); err != nil {
			return nil, errors.NewQueryExecutionFailedError("supply", fmt.Errorf("metadata for %s: %w", rec.Company, err))
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, "supply", err)
	}
	return out, nil
}

func decodeJSONB(data []byte, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

func queryError(ctx context.Context, queryType string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return errors.NewQueryTimeoutError(queryType)
	}
	return errors.NewQueryExecutionFailedError(queryType, err)
}
