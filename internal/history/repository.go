package history

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
)

// Repository stores prediction records.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a history repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const insertSQL = `INSERT INTO predictions
	(property_type, township, bedrooms, property_size, outcome, price, currency, message, source)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectColumns = `id, property_type, township, bedrooms, property_size, outcome, price, currency, message, source, created_at`

// Insert adds a record and returns it with its generated ID.
func (r *Repository) Insert(rec *Record) (*Record, error) {
	var currency interface{}
	if rec.Currency != "" {
		currency = rec.Currency
	}

	result, err := r.db.Exec(insertSQL,
		rec.PropertyType, rec.Township, rec.Bedrooms, rec.PropertySize,
		string(rec.Outcome), rec.Price, currency, rec.Message, rec.Source,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting prediction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting insert id: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a record by its ID.
func (r *Repository) GetByID(id int64) (*Record, error) {
	query := fmt.Sprintf("SELECT %s FROM predictions WHERE id = ?", selectColumns)
	rec, err := scanRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("prediction %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying prediction %d: %w", id, err)
	}
	return rec, nil
}

// ListOptions controls filtering for List.
type ListOptions struct {
	Limit   int     // 0 = no limit
	Outcome Outcome // empty = all
}

// List returns records newest first.
func (r *Repository) List(opts ListOptions) (records []*Record, err error) {
	query := fmt.Sprintf("SELECT %s FROM predictions", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.Outcome != "" {
		conditions = append(conditions, "outcome = ?")
		args = append(args, string(opts.Outcome))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	defer closeRows(rows, &records, &err)

	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prediction: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating predictions: %w", err)
	}

	return records, nil
}

// closeRows closes c and reports a close failure through err, unless an
// earlier error is already being returned. Records are dropped on failure.
func closeRows(c io.Closer, records *[]*Record, err *error) {
	closeErr := c.Close()
	if closeErr == nil || *err != nil {
		return
	}
	*records = nil
	*err = fmt.Errorf("closing rows: %w", closeErr)
}
