package accountuser

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	umTypes "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/types"
)

func (dbService *AccountUserDBService) CreateDeletionRequest(request *umTypes.DeletionRequest) (*umTypes.DeletionRequest, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	request.CreatedAt = time.Now().Unix()
	res, err := dbService.collectionDeletionRequests().InsertOne(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = res.InsertedID.(primitive.ObjectID)
	return request, nil
}
