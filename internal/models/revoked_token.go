package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RevokedToken records a logged-out access token by its jti claim. A TTL
// index on expiresAt prunes entries once the token would have expired anyway.
type RevokedToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	JTI       string             `bson:"jti"`
	ExpiresAt time.Time          `bson:"expiresAt"`
	RevokedAt time.Time          `bson:"revokedAt"`
}
