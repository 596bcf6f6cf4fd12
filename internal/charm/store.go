// ABOUTME: Repository implementation over Charm KV.
// ABOUTME: Type-prefixed keys with client-side filtering and sorting.
package charm

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
)

// Keys are laid out as <type>:<user_id>:<record_id> so a single prefix
// scan covers one user's readings of one vital. Users and sessions use
// <type>:<id>.

var _ storage.Repository = (*Client)(nil)

// CreateUser stores a new user profile.
func (c *Client) CreateUser(u *models.User) error {
	if _, err := c.GetUserByEmail(u.Email); err == nil {
		return fmt.Errorf("email already registered: %s", u.Email)
	}
	data, err := marshalJSON(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return c.set(userPrefix+u.ID.String(), data)
}

// GetUser retrieves a user by ID.
func (c *Client) GetUser(id uuid.UUID) (*models.User, error) {
	data, err := c.get(userPrefix + id.String())
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	return unmarshalJSON[models.User](data)
}

// GetUserByEmail retrieves a user by normalized email.
// The KV store has no secondary index, so this scans all users.
func (c *Client) GetUserByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	users, err := c.ListUsers()
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
}

// ListUsers returns all users ordered by creation time.
func (c *Client) ListUsers() ([]*models.User, error) {
	allData, err := c.listByPrefix(userPrefix)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var users []*models.User
	for _, data := range allData {
		u, err := unmarshalJSON[models.User](data)
		if err != nil {
			continue // Skip invalid entries
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

// UpdateUser persists profile changes.
func (c *Client) UpdateUser(u *models.User) error {
	if _, err := c.GetUser(u.ID); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()
	data, err := marshalJSON(u)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return c.set(userPrefix+u.ID.String(), data)
}

// DeleteUser removes a user and all dependent records.
func (c *Client) DeleteUser(id uuid.UUID) error {
	if _, err := c.GetUser(id); err != nil {
		return err
	}
	// Cascade readings and reminders the way the SQL backend does
	for _, prefix := range []string{bpPrefix, weightPrefix, hrPrefix, reminderPrefix} {
		keys, err := c.keysByPrefix(prefix + id.String() + ":")
		if err != nil {
			return fmt.Errorf("delete user records: %w", err)
		}
		for _, key := range keys {
			if err := c.delete(key); err != nil {
				return fmt.Errorf("delete user records: %w", err)
			}
		}
	}
	// Sessions are keyed by token, so filter by stored user ID
	sessKeys, err := c.keysByPrefix(sessionPrefix)
	if err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	for _, key := range sessKeys {
		data, err := c.get(key)
		if err != nil {
			continue
		}
		sess, err := unmarshalJSON[models.Session](data)
		if err != nil || sess.UserID != id {
			continue
		}
		if err := c.delete(key); err != nil {
			return fmt.Errorf("delete user sessions: %w", err)
		}
	}
	return c.delete(userPrefix + id.String())
}

// CreateSession stores a login session.
func (c *Client) CreateSession(s *models.Session) error {
	data, err := marshalJSON(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return c.set(sessionPrefix+s.Token, data)
}

// GetSession retrieves a session by token.
func (c *Client) GetSession(token string) (*models.Session, error) {
	data, err := c.get(sessionPrefix + token)
	if err != nil {
		return nil, fmt.Errorf("session: %w", storage.ErrNotFound)
	}
	return unmarshalJSON[models.Session](data)
}

// DeleteSession removes a session (logout).
func (c *Client) DeleteSession(token string) error {
	if _, err := c.GetSession(token); err != nil {
		return err
	}
	return c.delete(sessionPrefix + token)
}

// CreateBP stores a new blood-pressure reading.
func (c *Client) CreateBP(r *models.BPReading) error {
	return createRecord(c, bpPrefix, r.UserID, r.ID, r)
}

// ListBP retrieves a user's blood-pressure readings, most recent first.
func (c *Client) ListBP(userID uuid.UUID, limit int) ([]*models.BPReading, error) {
	return listRecords[models.BPReading](c, bpPrefix, userID, limit,
		func(r *models.BPReading) time.Time { return r.RecordedAt })
}

// LatestBP returns the user's most recent blood-pressure reading.
func (c *Client) LatestBP(userID uuid.UUID) (*models.BPReading, error) {
	readings, err := c.ListBP(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("bp reading: %w", storage.ErrNotFound)
	}
	return readings[0], nil
}

// DeleteBP removes a reading by ID or prefix, scoped to the user.
func (c *Client) DeleteBP(userID uuid.UUID, idOrPrefix string) error {
	return c.deleteByIDPrefix(bpPrefix, userID, idOrPrefix)
}

// CreateWeight stores a new weight record.
func (c *Client) CreateWeight(r *models.WeightRecord) error {
	return createRecord(c, weightPrefix, r.UserID, r.ID, r)
}

// ListWeight retrieves a user's weight records, most recent first.
func (c *Client) ListWeight(userID uuid.UUID, limit int) ([]*models.WeightRecord, error) {
	return listRecords[models.WeightRecord](c, weightPrefix, userID, limit,
		func(r *models.WeightRecord) time.Time { return r.RecordedAt })
}

// LatestWeight returns the user's most recent weight record.
func (c *Client) LatestWeight(userID uuid.UUID) (*models.WeightRecord, error) {
	records, err := c.ListWeight(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("weight record: %w", storage.ErrNotFound)
	}
	return records[0], nil
}

// DeleteWeight removes a record by ID or prefix, scoped to the user.
func (c *Client) DeleteWeight(userID uuid.UUID, idOrPrefix string) error {
	return c.deleteByIDPrefix(weightPrefix, userID, idOrPrefix)
}

// CreateHeartRate stores a new heart-rate reading.
func (c *Client) CreateHeartRate(r *models.HeartRateReading) error {
	return createRecord(c, hrPrefix, r.UserID, r.ID, r)
}

// ListHeartRate retrieves a user's heart-rate readings, most recent first.
func (c *Client) ListHeartRate(userID uuid.UUID, limit int) ([]*models.HeartRateReading, error) {
	return listRecords[models.HeartRateReading](c, hrPrefix, userID, limit,
		func(r *models.HeartRateReading) time.Time { return r.RecordedAt })
}

// LatestHeartRate returns the user's most recent heart-rate reading.
func (c *Client) LatestHeartRate(userID uuid.UUID) (*models.HeartRateReading, error) {
	readings, err := c.ListHeartRate(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("heart rate reading: %w", storage.ErrNotFound)
	}
	return readings[0], nil
}

// DeleteHeartRate removes a reading by ID or prefix, scoped to the user.
func (c *Client) DeleteHeartRate(userID uuid.UUID, idOrPrefix string) error {
	return c.deleteByIDPrefix(hrPrefix, userID, idOrPrefix)
}

// LastMeasurement returns the recorded_at of the most recent reading of
// the given vital, or nil when the user has none.
func (c *Client) LastMeasurement(userID uuid.UUID, vital models.VitalType) (*time.Time, error) {
	var t time.Time
	switch vital {
	case models.VitalBloodPressure:
		r, err := c.LatestBP(userID)
		if err != nil {
			return nilIfNotFound(err)
		}
		t = r.RecordedAt
	case models.VitalWeight:
		r, err := c.LatestWeight(userID)
		if err != nil {
			return nilIfNotFound(err)
		}
		t = r.RecordedAt
	case models.VitalHeartRate:
		r, err := c.LatestHeartRate(userID)
		if err != nil {
			return nilIfNotFound(err)
		}
		t = r.RecordedAt
	default:
		return nil, fmt.Errorf("unknown vital type: %s", vital)
	}
	return &t, nil
}

// SetReminder inserts or replaces a reminder setting.
func (c *Client) SetReminder(rm *models.Reminder) error {
	rm.UpdatedAt = time.Now()
	data, err := marshalJSON(rm)
	if err != nil {
		return fmt.Errorf("marshal reminder: %w", err)
	}
	return c.set(reminderPrefix+rm.UserID.String()+":"+string(rm.Vital), data)
}

// ListReminders returns all reminder settings for a user.
func (c *Client) ListReminders(userID uuid.UUID) ([]*models.Reminder, error) {
	allData, err := c.listByPrefix(reminderPrefix + userID.String() + ":")
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}

	var reminders []*models.Reminder
	for _, data := range allData {
		rm, err := unmarshalJSON[models.Reminder](data)
		if err != nil {
			continue
		}
		reminders = append(reminders, rm)
	}
	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].Vital < reminders[j].Vital
	})
	return reminders, nil
}

// GetAllData retrieves all data for export.
func (c *Client) GetAllData() (*storage.ExportData, error) {
	users, err := c.ListUsers()
	if err != nil {
		return nil, err
	}

	data := &storage.ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "vitals",
		Users:      users,
	}

	for _, u := range users {
		bp, err := c.ListBP(u.ID, 0)
		if err != nil {
			return nil, err
		}
		data.BP = append(data.BP, bp...)

		weight, err := c.ListWeight(u.ID, 0)
		if err != nil {
			return nil, err
		}
		data.Weight = append(data.Weight, weight...)

		hr, err := c.ListHeartRate(u.ID, 0)
		if err != nil {
			return nil, err
		}
		data.HeartRate = append(data.HeartRate, hr...)

		reminders, err := c.ListReminders(u.ID)
		if err != nil {
			return nil, err
		}
		data.Reminders = append(data.Reminders, reminders...)
	}

	return data, nil
}

// ImportData imports data from an export file.
func (c *Client) ImportData(data *storage.ExportData) error {
	for _, u := range data.Users {
		if err := c.CreateUser(u); err != nil {
			return fmt.Errorf("import user: %w", err)
		}
	}
	for _, r := range data.BP {
		if err := c.CreateBP(r); err != nil {
			return fmt.Errorf("import bp reading: %w", err)
		}
	}
	for _, r := range data.Weight {
		if err := c.CreateWeight(r); err != nil {
			return fmt.Errorf("import weight record: %w", err)
		}
	}
	for _, r := range data.HeartRate {
		if err := c.CreateHeartRate(r); err != nil {
			return fmt.Errorf("import heart rate reading: %w", err)
		}
	}
	for _, rm := range data.Reminders {
		if err := c.SetReminder(rm); err != nil {
			return fmt.Errorf("import reminder: %w", err)
		}
	}
	return nil
}

// --- helpers ---

func createRecord(c *Client, prefix string, userID, id uuid.UUID, v interface{}) error {
	data, err := marshalJSON(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	return c.set(prefix+userID.String()+":"+id.String(), data)
}

func listRecords[T any](c *Client, prefix string, userID uuid.UUID, limit int, recordedAt func(*T) time.Time) ([]*T, error) {
	allData, err := c.listByPrefix(prefix + userID.String() + ":")
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	var records []*T
	for _, data := range allData {
		r, err := unmarshalJSON[T](data)
		if err != nil {
			continue // Skip invalid entries
		}
		records = append(records, r)
	}

	// Sort by RecordedAt descending
	sort.Slice(records, func(i, j int) bool {
		return recordedAt(records[i]).After(recordedAt(records[j]))
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// deleteByIDPrefix removes a single record whose ID matches the prefix.
// Ambiguous prefixes are an error, matching CLI semantics.
func (c *Client) deleteByIDPrefix(typePrefix string, userID uuid.UUID, idPrefix string) error {
	keys, err := c.keysByPrefix(typePrefix + userID.String() + ":" + idPrefix)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if len(keys) == 0 {
		return fmt.Errorf("reading %s: %w", idPrefix, storage.ErrNotFound)
	}
	if len(keys) > 1 {
		return fmt.Errorf("ambiguous prefix %s: matches multiple records", idPrefix)
	}
	return c.delete(keys[0])
}

func nilIfNotFound(err error) (*time.Time, error) {
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}
