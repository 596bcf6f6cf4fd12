// ABOUTME: Vital-sign reading CRUD operations for SQLite storage.
// ABOUTME: One section per vital type; latest is recorded_at DESC LIMIT 1.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
)

// --- Blood pressure ---

// CreateBP stores a new blood-pressure reading.
func (d *DB) CreateBP(r *models.BPReading) error {
	_, err := d.db.Exec(`
		INSERT INTO bp_readings (id, user_id, systolic, diastolic, pulse, category, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.UserID.String(), r.Systolic, r.Diastolic, r.Pulse, string(r.Category),
		r.RecordedAt.Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create bp reading: %w", err)
	}
	return nil
}

// ListBP retrieves a user's blood-pressure readings, most recent first.
func (d *DB) ListBP(userID uuid.UUID, limit int) ([]*models.BPReading, error) {
	query := bpSelect + " WHERE user_id = ? ORDER BY recorded_at DESC"
	args := []interface{}{userID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bp readings: %w", err)
	}
	defer rows.Close()

	var readings []*models.BPReading
	for rows.Next() {
		r, err := scanBP(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// LatestBP returns the user's most recent blood-pressure reading.
func (d *DB) LatestBP(userID uuid.UUID) (*models.BPReading, error) {
	row := d.db.QueryRow(bpSelect+" WHERE user_id = ? ORDER BY recorded_at DESC LIMIT 1", userID.String())
	r, err := scanBP(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bp reading: %w", ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// DeleteBP removes a reading by ID or prefix, scoped to the user.
func (d *DB) DeleteBP(userID uuid.UUID, idOrPrefix string) error {
	return d.deleteReading("bp_readings", userID, idOrPrefix)
}

// --- Weight ---

// CreateWeight stores a new weight record.
func (d *DB) CreateWeight(r *models.WeightRecord) error {
	_, err := d.db.Exec(`
		INSERT INTO weight_records (id, user_id, weight_kg, height_cm, bmi, category, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.UserID.String(), r.WeightKg, r.HeightCm, r.BMI, string(r.Category),
		r.RecordedAt.Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create weight record: %w", err)
	}
	return nil
}

// ListWeight retrieves a user's weight records, most recent first.
func (d *DB) ListWeight(userID uuid.UUID, limit int) ([]*models.WeightRecord, error) {
	query := weightSelect + " WHERE user_id = ? ORDER BY recorded_at DESC"
	args := []interface{}{userID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weight records: %w", err)
	}
	defer rows.Close()

	var records []*models.WeightRecord
	for rows.Next() {
		r, err := scanWeight(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// LatestWeight returns the user's most recent weight record.
func (d *DB) LatestWeight(userID uuid.UUID) (*models.WeightRecord, error) {
	row := d.db.QueryRow(weightSelect+" WHERE user_id = ? ORDER BY recorded_at DESC LIMIT 1", userID.String())
	r, err := scanWeight(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("weight record: %w", ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// DeleteWeight removes a record by ID or prefix, scoped to the user.
func (d *DB) DeleteWeight(userID uuid.UUID, idOrPrefix string) error {
	return d.deleteReading("weight_records", userID, idOrPrefix)
}

// --- Heart rate ---

// CreateHeartRate stores a new heart-rate reading.
func (d *DB) CreateHeartRate(r *models.HeartRateReading) error {
	_, err := d.db.Exec(`
		INSERT INTO heart_rate_readings (id, user_id, bpm, status, recorded_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.UserID.String(), r.BPM, string(r.Status),
		r.RecordedAt.Format(time.RFC3339), r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create heart rate reading: %w", err)
	}
	return nil
}

// ListHeartRate retrieves a user's heart-rate readings, most recent first.
func (d *DB) ListHeartRate(userID uuid.UUID, limit int) ([]*models.HeartRateReading, error) {
	query := hrSelect + " WHERE user_id = ? ORDER BY recorded_at DESC"
	args := []interface{}{userID.String()}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list heart rate readings: %w", err)
	}
	defer rows.Close()

	var readings []*models.HeartRateReading
	for rows.Next() {
		r, err := scanHeartRate(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// LatestHeartRate returns the user's most recent heart-rate reading.
func (d *DB) LatestHeartRate(userID uuid.UUID) (*models.HeartRateReading, error) {
	row := d.db.QueryRow(hrSelect+" WHERE user_id = ? ORDER BY recorded_at DESC LIMIT 1", userID.String())
	r, err := scanHeartRate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("heart rate reading: %w", ErrNotFound)
		}
		return nil, err
	}
	return r, nil
}

// DeleteHeartRate removes a reading by ID or prefix, scoped to the user.
func (d *DB) DeleteHeartRate(userID uuid.UUID, idOrPrefix string) error {
	return d.deleteReading("heart_rate_readings", userID, idOrPrefix)
}

// --- Shared ---

var vitalTables = map[models.VitalType]string{
	models.VitalBloodPressure: "bp_readings",
	models.VitalWeight:        "weight_records",
	models.VitalHeartRate:     "heart_rate_readings",
}

// LastMeasurement returns the recorded_at of the most recent reading of
// the given vital, or nil when the user has none.
func (d *DB) LastMeasurement(userID uuid.UUID, vital models.VitalType) (*time.Time, error) {
	table, ok := vitalTables[vital]
	if !ok {
		return nil, fmt.Errorf("unknown vital type: %s", vital)
	}

	var recordedAt string
	err := d.db.QueryRow(
		"SELECT recorded_at FROM "+table+" WHERE user_id = ? ORDER BY recorded_at DESC LIMIT 1",
		userID.String()).Scan(&recordedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last measurement: %w", err)
	}

	t, err := time.Parse(time.RFC3339, recordedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid recorded_at timestamp: %w", err)
	}
	return &t, nil
}

// deleteReading removes a row by ID or prefix from one of the reading
// tables. Ambiguous prefixes are an error, matching CLI semantics.
func (d *DB) deleteReading(table string, userID uuid.UUID, idOrPrefix string) error {
	id, err := d.resolveReadingID(table, userID, idOrPrefix)
	if err != nil {
		return err
	}

	result, err := d.db.Exec("DELETE FROM "+table+" WHERE id = ? AND user_id = ?", id, userID.String())
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("reading %s: %w", idOrPrefix, ErrNotFound)
	}
	return nil
}

// resolveReadingID finds the full ID from a prefix.
func (d *DB) resolveReadingID(table string, userID uuid.UUID, idOrPrefix string) (string, error) {
	// A full UUID needs no lookup
	if len(idOrPrefix) == 36 && strings.Count(idOrPrefix, "-") == 4 {
		return idOrPrefix, nil
	}

	rows, err := d.db.Query(
		"SELECT id FROM "+table+" WHERE user_id = ? AND id LIKE ? || '%'",
		userID.String(), idOrPrefix)
	if err != nil {
		return "", fmt.Errorf("resolve reading ID: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("scan reading ID: %w", err)
		}
		matches = append(matches, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve reading ID: %w", err)
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("reading %s: %w", idOrPrefix, ErrNotFound)
	}
	if len(matches) > 1 {
		return "", fmt.Errorf("ambiguous prefix %s: matches multiple records", idOrPrefix)
	}
	return matches[0], nil
}

const bpSelect = `
	SELECT id, user_id, systolic, diastolic, pulse, category, recorded_at, created_at
	FROM bp_readings`

const weightSelect = `
	SELECT id, user_id, weight_kg, height_cm, bmi, category, recorded_at, created_at
	FROM weight_records`

const hrSelect = `
	SELECT id, user_id, bpm, status, recorded_at, created_at
	FROM heart_rate_readings`

func scanBP(row rowScanner) (*models.BPReading, error) {
	var r models.BPReading
	var idStr, userStr, category, recordedAt, createdAt string
	var pulse sql.NullInt64

	err := row.Scan(&idStr, &userStr, &r.Systolic, &r.Diastolic, &pulse, &category, &recordedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan bp reading: %w", err)
	}

	if err := fillReadingIDs(&r.ID, &r.UserID, idStr, userStr); err != nil {
		return nil, err
	}
	r.Category = models.BPCategory(category)
	if pulse.Valid {
		p := int(pulse.Int64)
		r.Pulse = &p
	}
	r.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

func scanWeight(row rowScanner) (*models.WeightRecord, error) {
	var r models.WeightRecord
	var idStr, userStr, category, recordedAt, createdAt string

	err := row.Scan(&idStr, &userStr, &r.WeightKg, &r.HeightCm, &r.BMI, &category, &recordedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan weight record: %w", err)
	}

	if err := fillReadingIDs(&r.ID, &r.UserID, idStr, userStr); err != nil {
		return nil, err
	}
	r.Category = models.BMICategory(category)
	r.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

func scanHeartRate(row rowScanner) (*models.HeartRateReading, error) {
	var r models.HeartRateReading
	var idStr, userStr, status, recordedAt, createdAt string

	err := row.Scan(&idStr, &userStr, &r.BPM, &status, &recordedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan heart rate reading: %w", err)
	}

	if err := fillReadingIDs(&r.ID, &r.UserID, idStr, userStr); err != nil {
		return nil, err
	}
	r.Status = models.HeartRateStatus(status)
	r.RecordedAt, _ = time.Parse(time.RFC3339, recordedAt)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}

func fillReadingIDs(id, userID *uuid.UUID, idStr, userStr string) error {
	var err error
	*id, err = uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid reading ID in database: %w", err)
	}
	*userID, err = uuid.Parse(userStr)
	if err != nil {
		return fmt.Errorf("invalid user ID in database: %w", err)
	}
	return nil
}
