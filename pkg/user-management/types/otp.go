package types

// OTP is the cache payload for a pending one-time code. Exactly one of UserID
// and RegistrationID is set; validation hands the owner reference back to the
// calling workflow.
type OTP struct {
	Code           string `json:"code"`
	Reference      string `json:"reference"`
	DisplayID      string `json:"displayID"`
	UserID         string `json:"userID,omitempty"`
	RegistrationID string `json:"registrationID,omitempty"`
	EmailAddress   string `json:"emailAddress"`
	PhoneNumber    string `json:"phoneNumber"`
	CreatedAt      int64  `json:"createdAt"`
	ExpiresAt      int64  `json:"expiresAt"`
	Consumed       bool   `json:"consumed"`
}
