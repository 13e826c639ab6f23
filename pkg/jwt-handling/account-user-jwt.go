package jwthandling

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Information a session token encodes for an authenticated account user
type AccountUserClaims struct {
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"firstName,omitempty"`
	LastName     string `json:"lastName,omitempty"`
	Role         string `json:"role,omitempty"`
	EmailAddress string `json:"emailAddress,omitempty"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	jwt.RegisteredClaims
}

func GenerateNewAccountUserToken(expiresIn time.Duration, userID string, username string, firstName string, lastName string, role string, emailAddress string, phoneNumber string, secretKey string) (tokenString string, err error) {
	claims := AccountUserClaims{
		username,
		firstName,
		lastName,
		role,
		emailAddress,
		phoneNumber,
		jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString([]byte(secretKey))
	return
}

func ValidateAccountUserToken(tokenString string, secretKey string) (claims *AccountUserClaims, valid bool, err error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccountUserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if token == nil {
		return
	}
	claims, valid = token.Claims.(*AccountUserClaims)
	valid = valid && token.Valid
	return
}
