package accountuser

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

func (dbService *AccountUserDBService) createIndexForLoginHistory() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionLoginHistory().Indexes().CreateOne(
		ctx,
		mongo.IndexModel{
			Keys: bson.D{
				{Key: "userID", Value: 1},
				{Key: "loginAt", Value: -1},
			},
		},
	)
	return err
}

func (dbService *AccountUserDBService) AddLoginRecord(record *umTypes.LoginRecord) (*umTypes.LoginRecord, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionLoginHistory().InsertOne(ctx, record)
	if err != nil {
		return nil, err
	}
	record.ID = res.InsertedID.(primitive.ObjectID)
	return record, nil
}

// GetLastLoginRecord returns the most recent login of a user, or nil when the
// user never logged in before.
func (dbService *AccountUserDBService) GetLastLoginRecord(userID string) (*umTypes.LoginRecord, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "loginAt", Value: -1}})
	var record umTypes.LoginRecord
	err := dbService.collectionLoginHistory().FindOne(ctx, bson.M{"userID": userID}, opts).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
