package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// account statuses
const (
	USER_STATUS_ACTIVE   = "active"
	USER_STATUS_INACTIVE = "inactive"
	USER_STATUS_LOCKED   = "locked"
	USER_STATUS_EXPIRED  = "expired"
)

// role names
const (
	ROLE_DISTRIBUTOR         = "Distributor"
	ROLE_ADMINISTRATOR       = "Administrator"
	ROLE_SUPER_ADMINISTRATOR = "SuperAdministrator"
)

type User struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	Username     string `bson:"username" json:"username"`
	FirstName    string `bson:"firstName" json:"firstName"`
	LastName     string `bson:"lastName" json:"lastName"`
	EmailAddress string `bson:"emailAddress" json:"emailAddress"`
	PhoneNumber  string `bson:"phoneNumber" json:"phoneNumber"`

	Password          string `bson:"password" json:"-"`
	Status            string `bson:"status" json:"status"`
	PasswordExpiresAt int64  `bson:"passwordExpiresAt" json:"passwordExpiresAt"`

	// Ordered role list, the first entry is the primary role used for
	// authentication decisions.
	Roles []string `bson:"roles" json:"roles"`

	// nil means the user was never asked yet.
	IsPrivacyPolicyAccepted *bool `bson:"isPrivacyPolicyAccepted" json:"isPrivacyPolicyAccepted"`

	// Only set for admin users.
	AdminInfo *AdminInfo `bson:"adminInfo,omitempty" json:"adminInfo,omitempty"`

	ResetToken          string `bson:"resetToken,omitempty" json:"-"`
	ResetTokenExpiresAt int64  `bson:"resetTokenExpiresAt,omitempty" json:"-"`

	Timestamps Timestamps `bson:"timestamps" json:"timestamps"`
}

type AdminInfo struct {
	CompanyCode string `bson:"companyCode" json:"companyCode"`
	CompanyName string `bson:"companyName" json:"companyName"`
}

type Timestamps struct {
	CreatedAt  int64 `bson:"createdAt" json:"createdAt"`
	ModifiedAt int64 `bson:"modifiedAt" json:"modifiedAt"`
	LastLogin  int64 `bson:"lastLogin" json:"lastLogin"`
}

// PrimaryRole returns the role used for authentication decisions.
func (u User) PrimaryRole() string {
	if len(u.Roles) < 1 {
		return ""
	}
	return u.Roles[0]
}

func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (u User) PasswordExpired() bool {
	return u.PasswordExpiresAt > 0 && u.PasswordExpiresAt < time.Now().Unix()
}

type PasswordHistoryEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"userID" json:"userID"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
