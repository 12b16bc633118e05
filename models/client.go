package models

import "time"

// Client is a person who books training sessions.
type Client struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Venue is the single training location served by this deployment.
type Venue struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address" json:"address"`
	TZ      string `bson:"tz" json:"tz"` // IANA name, informational (single-timezone deployment)
}

// CheckIn records a client arriving for a booking.
type CheckIn struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	At        time.Time `bson:"at" json:"at"`
	Method    string    `bson:"method" json:"method"` // "client_qr", "desk_code" or "trainer_manual"
	PhotoURL  string    `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
}

// Review is post-session client feedback attached to a booking.
type Review struct {
	ID        string    `bson:"id" json:"id"`
	BookingID string    `bson:"bookingId" json:"bookingId"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Text      string    `bson:"text,omitempty" json:"text,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Settings holds venue-wide presentation defaults.
type Settings struct {
	Locale string `bson:"locale" json:"locale"`
	Theme  string `bson:"theme" json:"theme"`
}
