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

var ErrUserNotFound = errors.New("user not found")

func (dbService *AccountUserDBService) createIndexForUsers() error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_, err := dbService.collectionUsers().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{{Key: "resetToken", Value: 1}},
			},
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
					{Key: "passwordExpiresAt", Value: 1},
				},
			},
		},
	)
	return err
}

func (dbService *AccountUserDBService) CreateUser(user *umTypes.User) (*umTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	user.Timestamps.CreatedAt = time.Now().Unix()
	res, err := dbService.collectionUsers().InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// Username matching is exact and case sensitive.
func (dbService *AccountUserDBService) GetUserByUsername(username string) (*umTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user umTypes.User
	err := dbService.collectionUsers().FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (dbService *AccountUserDBService) GetUserByID(id string) (*umTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var user umTypes.User
	err = dbService.collectionUsers().FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (dbService *AccountUserDBService) GetUserByResetToken(resetToken string) (*umTypes.User, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	var user umTypes.User
	err := dbService.collectionUsers().FindOne(ctx, bson.M{"resetToken": resetToken}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (dbService *AccountUserDBService) UpdateUserStatus(userID string, status string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"status":                status,
		"timestamps.modifiedAt": time.Now().Unix(),
	}}
	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return ErrUserNotFound
	}
	return nil
}

func (dbService *AccountUserDBService) SetPrivacyPolicyAccepted(userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	accepted := true
	update := bson.M{"$set": bson.M{
		"isPrivacyPolicyAccepted": accepted,
		"timestamps.modifiedAt":   time.Now().Unix(),
	}}
	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return ErrUserNotFound
	}
	return nil
}

func (dbService *AccountUserDBService) UpdateLastLogin(userID string, loginAt int64) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"timestamps.lastLogin": loginAt}}
	_, err = dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": objID}, update)
	return err
}

func (dbService *AccountUserDBService) SetResetToken(userID string, resetToken string, expiresAt int64) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"resetToken":            resetToken,
		"resetTokenExpiresAt":   expiresAt,
		"timestamps.modifiedAt": time.Now().Unix(),
	}}
	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePassword stores the new hash, clears the reset token and moves the
// password expiry forward.
func (dbService *AccountUserDBService) UpdatePassword(userID string, passwordHash string, passwordExpiresAt int64) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"password":              passwordHash,
			"passwordExpiresAt":     passwordExpiresAt,
			"timestamps.modifiedAt": time.Now().Unix(),
		},
		"$unset": bson.M{
			"resetToken":          "",
			"resetTokenExpiresAt": "",
		},
	}
	res, err := dbService.collectionUsers().UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return ErrUserNotFound
	}
	return nil
}

// ExpireUsersWithPassedPasswordExpiry flips every active account whose password
// expiry date has passed to expired. Returns the number of updated accounts.
func (dbService *AccountUserDBService) ExpireUsersWithPassedPasswordExpiry(ref time.Time) (int64, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"status":            umTypes.USER_STATUS_ACTIVE,
		"passwordExpiresAt": bson.M{"$gt": 0, "$lt": ref.Unix()},
	}
	update := bson.M{"$set": bson.M{
		"status":                umTypes.USER_STATUS_EXPIRED,
		"timestamps.modifiedAt": ref.Unix(),
	}}
	res, err := dbService.collectionUsers().UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
