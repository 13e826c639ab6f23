package types

import "time"

// topics
const (
	TOPIC_USER_LOGIN               = "accounts.user.login"
	TOPIC_OTP_GENERATED            = "accounts.otp.generated"
	TOPIC_PASSWORD_RESET           = "accounts.password.reset"
	TOPIC_SAP_ACCOUNT_CREATED      = "accounts.sap-account.created"
	TOPIC_SAP_ACCOUNT_UPDATED      = "accounts.sap-account.updated"
	TOPIC_SAP_ACCOUNT_DELETED      = "accounts.sap-account.deleted"
	TOPIC_DELETION_REQUEST_CREATED = "accounts.deletion-request.created"
)

type UserLoginMessage struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"emailAddress"`
	PhoneNumber  string    `json:"phoneNumber"`
	ChannelCode  string    `json:"channelCode"`
	DeviceID     string    `json:"deviceId"`
	IPAddress    string    `json:"ipAddress"`
	LoginAt      time.Time `json:"loginAt"`
}

type OtpGeneratedMessage struct {
	Reference    string    `json:"reference"`
	DisplayID    string    `json:"displayId"`
	Code         string    `json:"code"`
	EmailAddress string    `json:"emailAddress"`
	PhoneNumber  string    `json:"phoneNumber"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

type PasswordResetMessage struct {
	UserID       string    `json:"userId"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"emailAddress"`
	ResetAt      time.Time `json:"resetAt"`
}

type SapAccountMessage struct {
	UserID       string    `json:"userId"`
	SapAccountID string    `json:"sapAccountId"`
	SapNumber    string    `json:"sapNumber"`
	CompanyCode  string    `json:"companyCode"`
	CountryCode  string    `json:"countryCode"`
	FriendlyName string    `json:"friendlyName"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type DeletionRequestMessage struct {
	UserID      string    `json:"userId"`
	SapNumber   string    `json:"sapNumber"`
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}
