// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: One table per vital-sign type plus users, sessions, and reminders.
package storage

// initSchema creates or updates the database schema.
// Readings are append-only rows keyed by user; "latest" is always
// selected by recorded_at descending.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		date_of_birth TEXT,
		gender TEXT,
		height_cm REAL,
		avatar INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS bp_readings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		systolic INTEGER NOT NULL,
		diastolic INTEGER NOT NULL,
		pulse INTEGER,
		category TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS weight_records (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		height_cm REAL NOT NULL,
		bmi REAL NOT NULL,
		category TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS heart_rate_readings (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		bpm INTEGER NOT NULL,
		status TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS reminders (
		user_id TEXT NOT NULL,
		vital TEXT NOT NULL,
		interval_seconds INTEGER NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 1,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, vital),
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_bp_user_recorded ON bp_readings(user_id, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_weight_user_recorded ON weight_records(user_id, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_hr_user_recorded ON heart_rate_readings(user_id, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	`

	_, err := d.db.Exec(schema)
	return err
}
