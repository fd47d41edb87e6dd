package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kash05/court-connect/internal/courtconnect"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrSlotFull   = errors.New("no courts left at that time")
)

const (
	RoleOwner  = "owner"
	RolePlayer = "player"
)

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	Gender    string `json:"gender,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
}

// Property is a stored listing: the submitted wizard aggregate plus
// ownership and bookkeeping fields.
type Property struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	courtconnect.PropertyForm
}

type PropertySummary struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Sports     []string `json:"sports"`
	BaseRate   float64  `json:"baseRate"`
	IsActive   bool     `json:"isActive"`
	CoverImage string   `json:"coverImage,omitempty"`
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

// SearchQuery filters active properties. Zero values mean no filter; the
// distance filter applies only when Near is set.
type SearchQuery struct {
	Sport    string
	Near     *Point
	RadiusKm float64
	// Date keeps properties open on that day (YYYY-MM-DD).
	Date    string
	MinRate *float64
	MaxRate *float64
	Limit   int
}

// Booking reserves one court of a sport at a property. Full-day bookings
// span the day's opening hours.
type Booking struct {
	ID           string  `json:"id"`
	PropertyID   string  `json:"propertyId"`
	PropertyName string  `json:"propertyName"`
	PlayerID     string  `json:"playerId"`
	OwnerID      string  `json:"ownerId"`
	Sport        string  `json:"sport"`
	Date         string  `json:"date"`
	TimeSlot     string  `json:"timeSlot"`
	Duration     int     `json:"duration"`
	FullDay      bool    `json:"fullDay"`
	Price        float64 `json:"price"`
	CreatedAt    string  `json:"createdAt"`
}

type Point struct {
	Lat, Lng float64
}

type UserStore interface {
	CreateUser(ctx context.Context, u User, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (u User, passwordHash string, err error)
	UserByID(ctx context.Context, id string) (User, error)
	CountUsers(ctx context.Context) (int, error)

	CreateSession(ctx context.Context, userID string, expiresAt time.Time) (sessionID string, err error)
	SessionActive(ctx context.Context, sessionID string) error
	DeleteSession(ctx context.Context, sessionID string) error
}

type PropertyStore interface {
	CreateProperty(ctx context.Context, ownerID string, form courtconnect.PropertyForm) (Property, error)
	GetProperty(ctx context.Context, id string) (Property, error)
	UpdateProperty(ctx context.Context, id string, form courtconnect.PropertyForm) (Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]PropertySummary, error)
	Search(ctx context.Context, q SearchQuery) ([]PropertySummary, error)
}

type BookingStore interface {
	// CreateBooking stores b unless capacity bookings of the same sport
	// already overlap it, in which case it returns ErrSlotFull.
	CreateBooking(ctx context.Context, b Booking, capacity int) (Booking, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Booking, error)
	ListByProperty(ctx context.Context, propertyID string) ([]Booking, error)
}

func newID() string {
	return uuid.NewString()
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
