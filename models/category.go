package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category groups products. The slug is derived from the name on every
// create and update, so the same name always yields the same slug.
type Category struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}
