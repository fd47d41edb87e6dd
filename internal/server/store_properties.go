package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/kash05/court-connect/internal/courtconnect"
)

// PropertyDocStore keeps properties as JSONB documents. Name, activity and
// geohash are mirrored into columns and the sports list into
// property_sports for filtering.
type PropertyDocStore struct {
	db *sql.DB
}

func NewPropertyDocStore(db *sql.DB) *PropertyDocStore {
	return &PropertyDocStore{db: db}
}

func (s *PropertyDocStore) CreateProperty(ctx context.Context, ownerID string, form courtconnect.PropertyForm) (Property, error) {
	now := nowUTC()
	p := Property{
		ID:           newID(),
		OwnerID:      ownerID,
		CreatedAt:    now,
		UpdatedAt:    now,
		PropertyForm: form.Clone(),
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Property{}, err
	}
	defer tx.Rollback()

	data, err := json.Marshal(p)
	if err != nil {
		return Property{}, err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO properties (id, owner_id, name, is_active, geohash, data, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, jsonb(?), ?, ?)`,
		p.ID, p.OwnerID, propertyName(p), boolInt(propertyActive(p)), propertyGeohash(p), string(data), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return Property{}, err
	}
	if err := putSports(ctx, tx, p); err != nil {
		return Property{}, err
	}
	return p, tx.Commit()
}

func (s *PropertyDocStore) GetProperty(ctx context.Context, id string) (Property, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM properties WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Property{}, ErrNotFound
	}
	if err != nil {
		return Property{}, err
	}
	var p Property
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Property{}, err
	}
	return p, nil
}

// UpdateProperty replaces the form of an existing property.
func (s *PropertyDocStore) UpdateProperty(ctx context.Context, id string, form courtconnect.PropertyForm) (Property, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return Property{}, err
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT json(data) FROM properties WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Property{}, ErrNotFound
	}
	if err != nil {
		return Property{}, err
	}

	var p Property
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return Property{}, err
	}
	p.PropertyForm = form.Clone()
	p.UpdatedAt = nowUTC()

	updated, err := json.Marshal(p)
	if err != nil {
		return Property{}, err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE properties SET name = ?, is_active = ?, geohash = ?, data = jsonb(?), updated_at = ? WHERE id = ?`,
		propertyName(p), boolInt(propertyActive(p)), propertyGeohash(p), string(updated), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return Property{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM property_sports WHERE property_id = ?`, p.ID); err != nil {
		return Property{}, err
	}
	if err := putSports(ctx, tx, p); err != nil {
		return Property{}, err
	}
	return p, tx.Commit()
}

func (s *PropertyDocStore) ListByOwner(ctx context.Context, ownerID string) ([]PropertySummary, error) {
	props, err := s.query(ctx,
		`SELECT json(data) FROM properties WHERE owner_id = ? ORDER BY created_at DESC, id`, ownerID,
	)
	if err != nil {
		return nil, err
	}
	out := make([]PropertySummary, 0, len(props))
	for _, p := range props {
		out = append(out, summarize(p, nil))
	}
	return out, nil
}

// Search narrows candidates by sport and geohash cell in SQL, then applies
// the date, rate and exact great-circle distance filters in memory.
func (s *PropertyDocStore) Search(ctx context.Context, q SearchQuery) ([]PropertySummary, error) {
	var (
		where = []string{"p.is_active = 1"}
		args  []any
		from  = "properties p"
	)
	if q.Sport != "" {
		sport, _ := courtconnect.SportsCatalog.Canonical(q.Sport)
		from += " JOIN property_sports ps ON ps.property_id = p.id"
		where = append(where, "ps.sport = ?")
		args = append(args, sport)
	}
	if q.Near != nil {
		if cells := searchCells(*q.Near, q.RadiusKm); len(cells) > 0 {
			prec := len(cells[0])
			where = append(where, "substr(p.geohash, 1, ?) IN (?"+strings.Repeat(", ?", len(cells)-1)+")")
			args = append(args, prec)
			for _, c := range cells {
				args = append(args, c)
			}
		} else {
			where = append(where, "p.geohash IS NOT NULL")
		}
	}

	props, err := s.query(ctx,
		"SELECT json(p.data) FROM "+from+" WHERE "+strings.Join(where, " AND ")+" ORDER BY p.name, p.id",
		args...,
	)
	if err != nil {
		return nil, err
	}

	out := make([]PropertySummary, 0, len(props))
	for _, p := range props {
		if !openOn(p, q.Date) || !rateWithin(p, q.MinRate, q.MaxRate) {
			continue
		}
		if q.Near == nil {
			out = append(out, summarize(p, nil))
			continue
		}
		at, ok := propertyPoint(p)
		if !ok {
			continue
		}
		d := distanceKm(*q.Near, at)
		if q.RadiusKm > 0 && d > q.RadiusKm {
			continue
		}
		out = append(out, summarize(p, &d))
	}
	if q.Near != nil {
		sort.SliceStable(out, func(i, j int) bool { return *out[i].DistanceKm < *out[j].DistanceKm })
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *PropertyDocStore) query(ctx context.Context, query string, args ...any) ([]Property, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []Property
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p Property
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

func putSports(ctx context.Context, tx *sql.Tx, p Property) error {
	if p.PropertyDetail == nil {
		return nil
	}
	for _, sport := range p.PropertyDetail.Sports {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO property_sports (property_id, sport) VALUES (?, ?)`, p.ID, sport,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func propertyName(p Property) string {
	if p.BasicInfo == nil {
		return ""
	}
	return p.BasicInfo.Name
}

func propertyActive(p Property) bool {
	return p.Media == nil || p.Media.IsActive
}

// openOn reports whether p opens on date. An empty date matches.
func openOn(p Property, date string) bool {
	if date == "" {
		return true
	}
	t := p.TimingAndAvailability
	if t == nil {
		return false
	}
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return false
	}
	if _, closed := closedOn(t, date); closed {
		return false
	}
	h := t.OpeningHours[courtconnect.DayOf(d)]
	return !h.Closed && h.Open != "" && h.Close != ""
}

func rateWithin(p Property, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if p.BookingAndPricing == nil {
		return false
	}
	rate := p.BookingAndPricing.BaseRate
	return (lo == nil || rate >= *lo) && (hi == nil || rate <= *hi)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func propertyPoint(p Property) (Point, bool) {
	if p.BasicInfo == nil || p.BasicInfo.Latitude == nil || p.BasicInfo.Longitude == nil {
		return Point{}, false
	}
	return Point{Lat: *p.BasicInfo.Latitude, Lng: *p.BasicInfo.Longitude}, true
}

func propertyGeohash(p Property) sql.NullString {
	at, ok := propertyPoint(p)
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: geohash.Encode(at.Lat, at.Lng), Valid: true}
}

func summarize(p Property, distance *float64) PropertySummary {
	s := PropertySummary{ID: p.ID, Name: propertyName(p), IsActive: propertyActive(p), DistanceKm: distance}
	if p.BasicInfo != nil {
		s.Address = p.BasicInfo.Address
	}
	if p.PropertyDetail != nil {
		s.Sports = p.PropertyDetail.Sports
	}
	if p.BookingAndPricing != nil {
		s.BaseRate = p.BookingAndPricing.BaseRate
	}
	if p.Media != nil && len(p.Media.Images) > 0 {
		s.CoverImage = p.Media.Images[0]
	}
	return s
}

// Approximate geohash cell size at the equator, indexed by precision.
var (
	cellWidthKm  = []float64{0, 5009, 1252, 156.5, 39.1, 4.89, 1.22, 0.153, 0.0382}
	cellHeightKm = []float64{0, 4992, 624.1, 156, 19.5, 4.89, 0.61, 0.153, 0.0191}
)

// searchCells returns the geohash cell containing p and its eight
// neighbours at the finest precision whose cells are still at least
// radiusKm across, so every point within the radius falls in one of them.
// It returns nil when the radius is too large to narrow anything.
func searchCells(p Point, radiusKm float64) []string {
	if radiusKm <= 0 {
		return nil
	}
	prec := 0
	for i := len(cellWidthKm) - 1; i >= 1; i-- {
		// Cells narrow away from the equator.
		w := cellWidthKm[i] * math.Cos(p.Lat*math.Pi/180)
		if min(w, cellHeightKm[i]) >= radiusKm {
			prec = i
			break
		}
	}
	if prec == 0 {
		return nil
	}
	center := geohash.EncodeWithPrecision(p.Lat, p.Lng, uint(prec))
	return append([]string{center}, geohash.Neighbors(center)...)
}

const earthRadiusKm = 6371.0

func distanceKm(a, b Point) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
