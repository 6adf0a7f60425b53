package model

import "time"

// BookingLock is an advisory lock held across a room's availability check and
// booking insert. Uniqueness of the _id serializes concurrent booking
// requests for the same room; expired locks are reaped by a TTL index.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
