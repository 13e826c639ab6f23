package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// channel codes as sent by the clients
const (
	CHANNEL_DISTRIBUTOR_APP = "distributor-app"
	CHANNEL_ADMIN_PORTAL    = "admin-portal"
)

type LoginRecord struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"userID" json:"userID"`
	DeviceID    string             `bson:"deviceID" json:"deviceID"`
	IPAddress   string             `bson:"ipAddress" json:"ipAddress"`
	ChannelCode string             `bson:"channelCode" json:"channelCode"`
	LoginAt     int64              `bson:"loginAt" json:"loginAt"`
}

// LockoutCounter is the cache payload tracking consecutive failed password
// attempts for one user. It lives under its own cache key namespace and is
// deleted on successful authentication.
type LockoutCounter struct {
	UserID    string `json:"userID"`
	Attempts  int    `json:"attempts"`
	CreatedAt int64  `json:"createdAt"`
}
