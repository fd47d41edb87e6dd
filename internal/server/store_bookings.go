package server

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/kash05/court-connect/internal/clock"
)

// BookingDocStore keeps bookings as JSONB documents with the time range
// mirrored into minute columns for overlap checks.
type BookingDocStore struct {
	db *sql.DB
}

func NewBookingDocStore(db *sql.DB) *BookingDocStore {
	return &BookingDocStore{db: db}
}

// CreateBooking counts overlapping bookings of the same sport and inserts
// in a single statement.
func (s *BookingDocStore) CreateBooking(ctx context.Context, b Booking, capacity int) (Booking, error) {
	start, err := clock.Minutes(b.TimeSlot)
	if err != nil {
		return Booking{}, err
	}
	end := start + b.Duration

	b.ID = newID()
	b.CreatedAt = nowUTC()
	data, err := json.Marshal(b)
	if err != nil {
		return Booking{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, property_id, player_id, owner_id, sport, date, start_min, end_min, data, created_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?, jsonb(?), ?
		 WHERE (SELECT COUNT(*) FROM bookings
		        WHERE property_id = ? AND date = ? AND sport = ? AND start_min < ? AND end_min > ?) < ?`,
		b.ID, b.PropertyID, b.PlayerID, b.OwnerID, b.Sport, b.Date, start, end, string(data), b.CreatedAt,
		b.PropertyID, b.Date, b.Sport, end, start, capacity,
	)
	if err != nil {
		return Booking{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Booking{}, err
	}
	if n == 0 {
		return Booking{}, ErrSlotFull
	}
	return b, nil
}

func (s *BookingDocStore) ListByPlayer(ctx context.Context, playerID string) ([]Booking, error) {
	return s.query(ctx,
		`SELECT json(data) FROM bookings WHERE player_id = ? ORDER BY date, start_min, id`, playerID,
	)
}

func (s *BookingDocStore) ListByProperty(ctx context.Context, propertyID string) ([]Booking, error) {
	return s.query(ctx,
		`SELECT json(data) FROM bookings WHERE property_id = ? ORDER BY date, start_min, id`, propertyID,
	)
}

func (s *BookingDocStore) query(ctx context.Context, query string, args ...any) ([]Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var b Booking
		if err := json.Unmarshal([]byte(data), &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
