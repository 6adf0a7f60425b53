package model

import "time"

// Group names with built-in meaning for role derivation.
const (
	GroupAdmins   = "Admins"
	GroupManagers = "Managers"
	GroupUsers    = "Users"
)

type Group struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type GroupMembership struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	GroupID   string    `json:"group_id" bson:"group_id" validate:"required,mongodb"`
	UserID    string    `json:"user_id" bson:"user_id" validate:"required,mongodb"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
