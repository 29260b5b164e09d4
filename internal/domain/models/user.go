// internal/domain/models/user.go
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserPublic is the read-only slice of a user record that may be shown next
// to a profile. Users are owned by another service; this app only reads the
// users collection to decorate profile responses.
type UserPublic struct {
	ID     primitive.ObjectID `bson:"_id" json:"id"`
	Name   string             `bson:"name" json:"name,omitempty"`
	Avatar string             `bson:"avatar" json:"avatar,omitempty"`
}
