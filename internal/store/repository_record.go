// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-salon-keeper/internal/config"
	"github.com/MKhiriev/go-salon-keeper/internal/logger"
	"github.com/MKhiriev/go-salon-keeper/models"
)

// recordRepository is the SQL-backed implementation of [RecordRepository].
// It works against the "records" table on both PostgreSQL and SQLite; the
// placeholder format comes from the embedded [*DB].
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that database interactions are traced with the
// request's trace id.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by db.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

// InsertRecords writes all records in one multi-row INSERT inside a
// transaction. A short row count rolls the batch back with
// [ErrRecordsNotSaved].
func (r *recordRepository) InsertRecords(ctx context.Context, records []models.StoredRecord) error {
	log := logger.FromContext(ctx)

	if len(records) == 0 {
		log.Warn().
			Str("func", "recordRepository.InsertRecords").
			Msg("no records provided")
		return nil
	}

	rows := make([]recordRow, 0, len(records))
	for _, rec := range records {
		row, err := newRecordRow(rec)
		if err != nil {
			log.Err(err).
				Str("func", "recordRepository.InsertRecords").
				Str("record_id", rec.ID).
				Msg("failed to encode record")
			return err
		}
		rows = append(rows, row)
	}

	query, args, err := buildInsertRecordsQuery(r.builder, rows)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.InsertRecords").
			Msg("failed to create query")
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.InsertRecords").
			Int("records_count", len(records)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.InsertRecords").
			Int("records_count", len(records)).
			Str("error_class", r.classify(err)).
			Msg("failed to insert records")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil || affected != int64(len(records)) {
		log.Error().
			Str("func", "recordRepository.InsertRecords").
			Int64("rows_affected", affected).
			Int("records_count", len(records)).
			Msg("not all records were inserted")
		return ErrRecordsNotSaved
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.InsertRecords").
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "recordRepository.InsertRecords").
		Int("records_count", len(records)).
		Msg("records inserted")

	return nil
}

// GetRecord loads one record by id.
func (r *recordRepository) GetRecord(ctx context.Context, id string) (models.StoredRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetRecordQuery(r.builder, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetRecord").
			Str("record_id", id).
			Msg("failed to create query")
		return models.StoredRecord{}, err
	}

	var row recordRow
	if err = r.DB.QueryRowContext(ctx, query, args...).Scan(row.scanDest()...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StoredRecord{}, ErrRecordNotFound
		}
		log.Err(err).
			Str("func", "recordRepository.GetRecord").
			Str("record_id", id).
			Str("error_class", r.classify(err)).
			Msg("failed to scan record row")
		return models.StoredRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	rec, err := row.toModel()
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.GetRecord").
			Str("record_id", id).
			Msg("failed to decode record row")
		return models.StoredRecord{}, err
	}

	return rec, nil
}

// FindRecords runs a filtered, newest-first query over one data type.
// Rows with undecodable JSON columns are skipped and logged.
func (r *recordRepository) FindRecords(ctx context.Context, dataType models.DataType, filter models.RecordFilter) ([]models.StoredRecord, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindRecordsQuery(r.builder, dataType, filter)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindRecords").
			Str("data_type", string(dataType)).
			Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.FindRecords").
			Str("data_type", string(dataType)).
			Str("error_class", r.classify(err)).
			Msg("failed to execute query for finding records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.StoredRecord, 0, 50)
	for rows.Next() {
		var row recordRow
		if scanErr := rows.Scan(row.scanDest()...); scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.FindRecords").
				Str("data_type", string(dataType)).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		rec, decodeErr := row.toModel()
		if decodeErr != nil {
			log.Err(decodeErr).
				Str("func", "recordRepository.FindRecords").
				Str("record_id", row.id).
				Msg("skipping record with corrupt columns")
			continue
		}
		results = append(results, rec)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "recordRepository.FindRecords").
			Str("data_type", string(dataType)).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// UpdateRecord performs a compare-and-swap on version inside a transaction
// that also appends entry to the current audit trail, so neither a
// concurrent update nor a concurrent audit append is lost.
func (r *recordRepository) UpdateRecord(ctx context.Context, record models.StoredRecord, expectedVersion int64, entry models.AuditEntry) ([]models.AuditEntry, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.UpdateRecord").
			Str("record_id", record.ID).
			Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	trail, err := r.lockAuditTrail(ctx, tx, "recordRepository.UpdateRecord", record.ID)
	if err != nil {
		return nil, err
	}
	record.AuditTrail = models.AppendAuditEntry(trail, entry)

	row, err := newRecordRow(record)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.UpdateRecord").
			Str("record_id", record.ID).
			Msg("failed to encode record")
		return nil, err
	}

	query, args, err := buildUpdateRecordQuery(r.builder, row, expectedVersion)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.UpdateRecord").
			Str("record_id", record.ID).
			Msg("failed to create query")
		return nil, err
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.UpdateRecord").
			Str("record_id", record.ID).
			Str("error_class", r.classify(err)).
			Msg("failed to execute update")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		// the row exists: lockAuditTrail found it
		log.Warn().
			Str("func", "recordRepository.UpdateRecord").
			Str("record_id", record.ID).
			Int64("expected_version", expectedVersion).
			Msg("optimistic lock failed: version mismatch on update")
		return nil, ErrVersionConflict
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.UpdateRecord").
			Str("record_id", record.ID).
			Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return record.AuditTrail, nil
}

// AppendAuditEntry reads, extends and writes back the audit_trail column in
// one transaction. PostgreSQL locks the row for the duration; SQLite runs on
// a single connection, so transactions never interleave there.
func (r *recordRepository) AppendAuditEntry(ctx context.Context, id string, entry models.AuditEntry) ([]models.AuditEntry, error) {
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.AppendAuditEntry").
			Str("record_id", id).
			Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	trail, err := r.lockAuditTrail(ctx, tx, "recordRepository.AppendAuditEntry", id)
	if err != nil {
		return nil, err
	}
	trail = models.AppendAuditEntry(trail, entry)

	encoded, err := encodeJSONColumn(trail)
	if err != nil {
		return nil, err
	}

	query, args, err := r.builder.Update(recordsTable).
		Set("audit_trail", encoded).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "recordRepository.AppendAuditEntry").
			Str("record_id", id).
			Str("error_class", r.classify(err)).
			Msg("failed to write audit trail")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.AppendAuditEntry").
			Str("record_id", id).
			Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return trail, nil
}

// lockAuditTrail loads the audit trail of id within tx, taking a row lock
// where the dialect has one.
func (r *recordRepository) lockAuditTrail(ctx context.Context, tx *sql.Tx, funcName, id string) ([]models.AuditEntry, error) {
	query, args, err := buildSelectAuditTrailQuery(r.builder, id, r.dialect == config.DriverPostgres)
	if err != nil {
		return nil, err
	}

	var encoded string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&encoded)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrRecordNotFound
	case err != nil:
		logger.FromContext(ctx).Err(err).
			Str("func", funcName).
			Str("record_id", id).
			Str("error_class", r.classify(err)).
			Msg("failed to load audit trail")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	var trail []models.AuditEntry
	if err = decodeJSONColumn(encoded, &trail); err != nil {
		return nil, err
	}
	return trail, nil
}

// DeleteRecord physically removes the row.
func (r *recordRepository) DeleteRecord(ctx context.Context, id string) error {
	query, args, err := r.builder.Delete(recordsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.execAffectingOne(ctx, "recordRepository.DeleteRecord", id, query, args)
}

func (r *recordRepository) execAffectingOne(ctx context.Context, funcName, id, query string, args []any) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("record_id", id).
			Str("error_class", r.classify(err)).
			Msg("failed to execute statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
