package accountuser

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

var ErrSapAccountNotFound = errors.New("sap account not found")

func (dbService *AccountUserDBService) createIndexForSapAccounts() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionSapAccounts().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{{Key: "userID", Value: 1}},
			},
			{
				Keys: bson.D{
					{Key: "userID", Value: 1},
					{Key: "sapNumber", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
	)
	return err
}

func (dbService *AccountUserDBService) AddSapAccount(account *umTypes.SapAccount) (*umTypes.SapAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	account.Timestamps.CreatedAt = time.Now().Unix()
	res, err := dbService.collectionSapAccounts().InsertOne(ctx, account)
	if err != nil {
		return nil, err
	}
	account.ID = res.InsertedID.(primitive.ObjectID)
	return account, nil
}

func (dbService *AccountUserDBService) GetSapAccountsForUser(userID string, page int64, pageSize int64) (accounts []umTypes.SapAccount, totalCount int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"userID": userID}

	totalCount, err = dbService.collectionSapAccounts().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamps.createdAt", Value: -1}}).
		SetSkip((page - 1) * pageSize).
		SetLimit(pageSize)

	cursor, err := dbService.collectionSapAccounts().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	accounts = []umTypes.SapAccount{}
	if err = cursor.All(ctx, &accounts); err != nil {
		return nil, 0, err
	}
	return accounts, totalCount, nil
}

func (dbService *AccountUserDBService) GetSapAccountByID(sapAccountID string) (*umTypes.SapAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(sapAccountID)
	if err != nil {
		return nil, err
	}

	var account umTypes.SapAccount
	err = dbService.collectionSapAccounts().FindOne(ctx, bson.M{"_id": objID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSapAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (dbService *AccountUserDBService) GetSapAccountBySapNumber(userID string, sapNumber string) (*umTypes.SapAccount, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var account umTypes.SapAccount
	err := dbService.collectionSapAccounts().FindOne(ctx, bson.M{
		"userID":    userID,
		"sapNumber": sapNumber,
	}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSapAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (dbService *AccountUserDBService) CountSapAccountsForUser(userID string) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	return dbService.collectionSapAccounts().CountDocuments(ctx, bson.M{"userID": userID})
}

func (dbService *AccountUserDBService) UpdateSapAccountFriendlyName(userID string, sapAccountID string, friendlyName string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(sapAccountID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"friendlyName":          friendlyName,
		"timestamps.modifiedAt": time.Now().Unix(),
	}}
	res, err := dbService.collectionSapAccounts().UpdateOne(ctx, bson.M{"_id": objID, "userID": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return ErrSapAccountNotFound
	}
	return nil
}

func (dbService *AccountUserDBService) DeleteSapAccount(userID string, sapAccountID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(sapAccountID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionSapAccounts().DeleteOne(ctx, bson.M{"_id": objID, "userID": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return ErrSapAccountNotFound
	}
	return nil
}
