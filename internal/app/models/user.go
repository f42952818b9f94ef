package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	TimeModel `bson:",inline"`
}

// ConvertToBsonM returns the mutable profile fields for a $set update.
func (u *User) ConvertToBsonM() bson.M {
	return bson.M{
		"name":      u.Name,
		"updatedAt": u.UpdatedAt,
	}
}
