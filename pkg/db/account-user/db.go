package accountuser

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db"
)

// collection names
const (
	COLLECTION_NAME_USERS             = "users"
	COLLECTION_NAME_LOGIN_HISTORY     = "loginHistory"
	COLLECTION_NAME_SAP_ACCOUNTS      = "sapAccounts"
	COLLECTION_NAME_DELETION_REQUESTS = "deletionRequests"
	COLLECTION_NAME_PASSWORD_HISTORY  = "passwordHistory"
)

type AccountUserDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewAccountUserDBService(configs db.DBConfig) (*AccountUserDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	auDBSc := &AccountUserDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		auDBSc.CreateDefaultIndexes()
	}
	return auDBSc, nil
}

func (dbService *AccountUserDBService) getDBName() string {
	return dbService.DBNamePrefix + "accounts"
}

func (dbService *AccountUserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *AccountUserDBService) collectionUsers() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_USERS)
}

func (dbService *AccountUserDBService) collectionLoginHistory() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_LOGIN_HISTORY)
}

func (dbService *AccountUserDBService) collectionSapAccounts() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SAP_ACCOUNTS)
}

func (dbService *AccountUserDBService) collectionDeletionRequests() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_DELETION_REQUESTS)
}

func (dbService *AccountUserDBService) collectionPasswordHistory() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_PASSWORD_HISTORY)
}

func (dbService *AccountUserDBService) CreateDefaultIndexes() {
	if err := dbService.createIndexForUsers(); err != nil {
		slog.Error("Error creating indexes for users", slog.String("error", err.Error()))
	}
	if err := dbService.createIndexForLoginHistory(); err != nil {
		slog.Error("Error creating indexes for login history", slog.String("error", err.Error()))
	}
	if err := dbService.createIndexForSapAccounts(); err != nil {
		slog.Error("Error creating indexes for sap accounts", slog.String("error", err.Error()))
	}
	if err := dbService.createIndexForPasswordHistory(); err != nil {
		slog.Error("Error creating indexes for password history", slog.String("error", err.Error()))
	}
}
