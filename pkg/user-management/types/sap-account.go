package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SAP directory account statuses
const (
	SAP_ACCOUNT_STATUS_ACTIVE   = "active"
	SAP_ACCOUNT_STATUS_INACTIVE = "inactive"
)

type NameAndCode struct {
	Name string `bson:"name" json:"name"`
	Code string `bson:"code" json:"code"`
}

// SapAccount is a distributor account in the external SAP directory that has
// been linked to a local user.
type SapAccount struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	UserID          string      `bson:"userID" json:"userID"`
	CompanyCode     string      `bson:"companyCode" json:"companyCode"`
	CountryCode     string      `bson:"countryCode" json:"countryCode"`
	SapNumber       string      `bson:"sapNumber" json:"sapNumber"`
	DistributorName string      `bson:"distributorName" json:"distributorName"`
	FriendlyName    string      `bson:"friendlyName" json:"friendlyName"`
	AccountType     NameAndCode `bson:"accountType" json:"accountType"`

	Timestamps Timestamps `bson:"timestamps" json:"timestamps"`
}

// SapCustomer is the descriptor returned by the external directory for a
// candidate account, before it is linked.
type SapCustomer struct {
	AccountNumber   string      `json:"accountNumber"`
	DistributorName string      `json:"distributorName"`
	EmailAddress    string      `json:"emailAddress"`
	PhoneNumber     string      `json:"phoneNumber"`
	AccountType     string      `json:"accountType"`
	Status          NameAndCode `json:"status"`
}

// AccountLinkStage is the cache payload pairing a validated candidate account
// with the requesting user while the confirmation OTP is pending.
type AccountLinkStage struct {
	UserID       string      `json:"userID"`
	CompanyCode  string      `json:"companyCode"`
	CountryCode  string      `json:"countryCode"`
	FriendlyName string      `json:"friendlyName"`
	SapAccount   SapCustomer `json:"sapAccount"`
	StagedAt     int64       `json:"stagedAt"`
}

type DeletionRequest struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userID" json:"userID"`
	SapNumber string             `bson:"sapNumber" json:"sapNumber"`
	Reason    string             `bson:"reason" json:"reason"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
