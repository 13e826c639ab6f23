package accountuser

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

func (dbService *AccountUserDBService) createIndexForPasswordHistory() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPasswordHistory().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "userID", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
	)
	return err
}

func (dbService *AccountUserDBService) AddPasswordHistoryEntry(userID string, passwordHash string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionPasswordHistory().InsertOne(ctx, umTypes.PasswordHistoryEntry{
		UserID:    userID,
		Password:  passwordHash,
		CreatedAt: time.Now().Unix(),
	})
	return err
}

// GetRecentPasswordHashes returns the newest stored hashes for the recycle check.
func (dbService *AccountUserDBService) GetRecentPasswordHashes(userID string, limit int64) ([]string, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := dbService.collectionPasswordHistory().Find(ctx, bson.M{"userID": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []umTypes.PasswordHistoryEntry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	hashes := make([]string, len(entries))
	for i, entry := range entries {
		hashes[i] = entry.Password
	}
	return hashes, nil
}
