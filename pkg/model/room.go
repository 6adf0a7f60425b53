package model

import "time"

type Room struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerID      string    `json:"owner_id" bson:"owner_id" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Address      string    `json:"address" bson:"address" validate:"required,min=2,max=200"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Availability string    `json:"availability" bson:"availability" validate:"required,max=500"`
	PricePerHour float64   `json:"price_per_hour" bson:"price_per_hour" validate:"required,gt=0"`
	Location     string    `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	Sqft         int       `json:"sqft,omitempty" bson:"sqft,omitempty" validate:"omitempty,gt=0"`
	Capacity     int       `json:"capacity,omitempty" bson:"capacity,omitempty" validate:"omitempty,min=1,max=1000"`
	Amenities    string    `json:"amenities,omitempty" bson:"amenities,omitempty" validate:"omitempty,max=500"`
	Image        string    `json:"image,omitempty" bson:"image,omitempty" validate:"omitempty,url"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoomUpdate struct {
	Name         string   `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Address      string   `json:"address,omitempty" validate:"omitempty,min=2,max=200"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Availability string   `json:"availability,omitempty" validate:"omitempty,max=500"`
	PricePerHour *float64 `json:"price_per_hour,omitempty" validate:"omitempty,gt=0"`
	Location     *string  `json:"location,omitempty" validate:"omitempty,max=200"`
	Sqft         *int     `json:"sqft,omitempty" validate:"omitempty,gt=0"`
	Capacity     *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=1000"`
	Amenities    *string  `json:"amenities,omitempty" validate:"omitempty,max=500"`
	Image        *string  `json:"image,omitempty" validate:"omitempty,url"`
}
