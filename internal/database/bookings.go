package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"agendavel/internal/models"
	"agendavel/internal/schedule"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

const bookingColumns = `id, reference, location, location_key, date, time,
                 client_name, client_phone, status, comment, created_at,
				 updated_at, version`

// GetBookedTimes returns the occupied HH:MM times for a location and date,
// excluding cancelled bookings. The location is matched by normalized key.
func (db *DB) GetBookedTimes(ctx context.Context, location string, date time.Time) ([]string, error) {
	query := `SELECT time FROM bookings
              WHERE location_key = ? AND date = ? AND status != ?
              ORDER BY time ASC`
	rows, err := db.QueryContext(ctx, query,
		schedule.NormalizeName(location), date.Format(dateLayout), models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to get booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan booked time: %w", err)
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// CreateBookingWithLock inserts the booking only if its slot is still free.
// The occupancy recheck runs inside the transaction, and the partial unique
// index on (location_key, date, time) catches anything that slips past it.
func (db *DB) CreateBookingWithLock(ctx context.Context, booking *models.Booking) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if booking.LocationKey == "" {
		booking.LocationKey = schedule.NormalizeName(booking.Location)
	}

	var taken int
	queryCount := `SELECT COUNT(*) FROM bookings
                   WHERE location_key = ? AND date = ? AND time = ? AND status != ?`
	err = tx.QueryRowContext(ctx, queryCount,
		booking.LocationKey, booking.Date.Format(dateLayout), booking.Time,
		models.StatusCancelled).Scan(&taken)
	if err != nil {
		return fmt.Errorf("failed to check slot in tx: %w", err)
	}
	if taken > 0 {
		return ErrSlotTaken
	}

	if booking.Reference == "" {
		booking.Reference = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}

	queryInsert := `INSERT INTO bookings (
				reference, location, location_key, date, time,
				client_name, client_phone, status, comment, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.Reference,
		booking.Location,
		booking.LocationKey,
		booking.Date.Format(dateLayout),
		booking.Time,
		booking.ClientName,
		booking.ClientPhone,
		booking.Status,
		booking.Comment,
		now,
		now,
		1,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	return db.scanBookingRow(db.QueryRowContext(ctx, query, id))
}

func (db *DB) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = ?`
	return db.scanBookingRow(db.QueryRowContext(ctx, query, reference))
}

func (db *DB) scanBookingRow(row *sql.Row) (*models.Booking, error) {
	var booking models.Booking
	var dateStr string
	err := row.Scan(
		&booking.ID, &booking.Reference, &booking.Location, &booking.LocationKey,
		&dateStr, &booking.Time, &booking.ClientName, &booking.ClientPhone,
		&booking.Status, &booking.Comment, &booking.CreatedAt, &booking.UpdatedAt,
		&booking.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	booking.Date, err = time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
	}
	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, status, time.Now(), id)
	return err
}

func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

// GetBookingsForDay returns the bookings of one location and date in slot
// order, cancelled ones included (callers filter by status as needed).
func (db *DB) GetBookingsForDay(ctx context.Context, location string, date time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE location_key = ? AND date = ? ORDER BY time ASC`
	rows, err := db.QueryContext(ctx, query,
		schedule.NormalizeName(location), date.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings for day: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE date >= ? AND date <= ? ORDER BY date ASC, time ASC`
	rows, err := db.QueryContext(ctx, query,
		startDate.Format(dateLayout), endDate.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings by date range: %w", err)
	}
	defer rows.Close()
	return scanBookings(rows)
}

func scanBookings(rows *sql.Rows) ([]*models.Booking, error) {
	var bookings []*models.Booking
	for rows.Next() {
		b := &models.Booking{}
		var dateStr string
		err := rows.Scan(
			&b.ID, &b.Reference, &b.Location, &b.LocationKey,
			&dateStr, &b.Time, &b.ClientName, &b.ClientPhone,
			&b.Status, &b.Comment, &b.CreatedAt, &b.UpdatedAt, &b.Version,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse booking date %s: %w", dateStr, err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetDailyBookings groups a date range by day key (YYYY-MM-DD).
func (db *DB) GetDailyBookings(ctx context.Context, startDate, endDate time.Time) (map[string][]*models.Booking, error) {
	bookings, err := db.GetBookingsByDateRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	daily := make(map[string][]*models.Booking)
	for _, b := range bookings {
		dateKey := b.Date.Format(dateLayout)
		daily[dateKey] = append(daily[dateKey], b)
	}
	return daily, nil
}
