package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"beautyshop/internal/models"
)

// RevocationStore is the revocation set for access tokens: jti claims of
// logged-out tokens, kept until their natural expiry.
type RevocationStore struct {
	db *mongo.Database
}

func NewRevocationStore(db *mongo.Database) *RevocationStore {
	return &RevocationStore{db: db}
}

func (s *RevocationStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.Collection("revoked_tokens").InsertOne(ctx, models.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
		RevokedAt: time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		// Revoking an already revoked token is a no-op.
		return nil
	}
	return err
}

func (s *RevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.db.Collection("revoked_tokens").FindOne(ctx, bson.M{"jti": jti}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
