// Package store persists fetched candle series in a DuckDB database so
// that previously seen ranges can still serve a chart when the exchange is
// unreachable or the CLI runs offline.
package store

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/rxtech-lab/boerse-charts/internal/logger"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

// Store is a DuckDB-backed candle archive. A series slice is keyed by
// (identifier, resolution); SaveSeries replaces the whole slice so the
// archive always mirrors the latest successful fetch.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewStore opens (or creates) the DuckDB database at path. Use ":memory:"
// for an ephemeral store.
func NewStore(path string, log *logger.Logger) (*Store, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreInit, "failed to open candle store", err)
	}

	return &Store{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize creates the candles table if it does not exist yet.
func (s *Store) Initialize() error {
	s.logger.Debug("Initializing candle store")

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			id TEXT,
			identifier TEXT,
			resolution TEXT,
			time TIMESTAMP,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreInit, "failed to create candles table", err)
	}

	return nil
}

// SaveSeries replaces the stored slice for the series' (identifier,
// resolution) key in a single transaction. Candle times are stored as UTC
// instants; snapshot series are not persisted since a synthesized bar is
// not history.
func (s *Store) SaveSeries(series types.CandleSeries) error {
	if series.Snapshot {
		s.logger.Debug("Skipping snapshot series",
			zap.String("identifier", series.Identifier))

		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to begin transaction", err)
	}

	deleteQuery, deleteArgs, err := s.sq.
		Delete("candles").
		Where(squirrel.And{
			squirrel.Eq{"identifier": series.Identifier},
			squirrel.Eq{"resolution": string(series.Resolution)},
		}).
		ToSql()
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to build delete query", err)
	}

	if _, err := tx.Exec(deleteQuery, deleteArgs...); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to clear previous slice", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO candles (id, identifier, resolution, time, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, candle := range series.Candles {
		var volume any
		if candle.Volume.IsSome() {
			volume = candle.Volume.Unwrap()
		}

		_, err := stmt.Exec(
			uuid.New().String(),
			series.Identifier,
			string(series.Resolution),
			candle.Time.UTC(),
			candle.Open,
			candle.High,
			candle.Low,
			candle.Close,
			volume,
		)
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeStoreWrite, "failed to insert candle", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeStoreWrite, "failed to commit series", err)
	}

	s.logger.Debug("Saved candle series",
		zap.String("identifier", series.Identifier),
		zap.String("resolution", string(series.Resolution)),
		zap.Int("candles", len(series.Candles)))

	return nil
}

// LoadRange returns the stored candles for an identifier and resolution
// inside the time range, ascending by time. Zero range bounds are open.
// Times come back in the exchange-local timezone.
func (s *Store) LoadRange(identifier string, resolution types.Resolution, timeRange types.TimeRange) ([]types.Candle, error) {
	conditions := squirrel.And{
		squirrel.Eq{"identifier": identifier},
		squirrel.Eq{"resolution": string(resolution)},
	}

	if !timeRange.From.IsZero() {
		conditions = append(conditions, squirrel.GtOrEq{"time": timeRange.From.UTC()})
	}

	if !timeRange.To.IsZero() {
		conditions = append(conditions, squirrel.LtOrEq{"time": timeRange.To.UTC()})
	}

	query, args, err := s.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("candles").
		Where(conditions).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to build range query", err)
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to prepare range query", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to query candles", err)
	}
	defer rows.Close()

	loc := types.ExchangeLocation()
	candles := make([]types.Candle, 0, 256)

	for rows.Next() {
		var (
			timestamp              time.Time
			open, high, low, close float64
			volume                 sql.NullFloat64
		)

		if err := rows.Scan(&timestamp, &open, &high, &low, &close, &volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to scan candle row", err)
		}

		candle := types.Candle{
			Time:  timestamp.In(loc),
			Open:  open,
			High:  high,
			Low:   low,
			Close: close,
		}

		if volume.Valid {
			candle.Volume = optional.Some(volume.Float64)
		}

		candles = append(candles, candle)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "error iterating candle rows", err)
	}

	return candles, nil
}

// Count returns the number of stored candles for an identifier across all
// resolutions.
func (s *Store) Count(identifier string) (int, error) {
	query, args, err := s.sq.
		Select("COUNT(*)").
		From("candles").
		Where(squirrel.Eq{"identifier": identifier}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreQuery, "failed to build count query", err)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeStoreQuery, "failed to count candles", err)
	}

	return count, nil
}

// Identifiers returns the distinct instrument identifiers the store holds.
func (s *Store) Identifiers() ([]string, error) {
	query, _, err := s.sq.
		Select("DISTINCT identifier").
		From("candles").
		OrderBy("identifier ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to build identifiers query", err)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to query identifiers", err)
	}
	defer rows.Close()

	var identifiers []string

	for rows.Next() {
		var identifier string
		if err := rows.Scan(&identifier); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStoreQuery, "failed to scan identifier", err)
		}

		identifiers = append(identifiers, identifier)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreQuery, "error iterating identifiers", err)
	}

	return identifiers, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
