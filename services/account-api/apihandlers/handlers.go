package apihandlers

import (
	"net/http"

	accountuser "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/bus"
	usermanagement "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management"
	"github.com/gin-gonic/gin"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	authService  *usermanagement.AuthService
	userDBConn   *accountuser.AccountUserDBService
	publisher    bus.Publisher
	tokenSignKey string
}

func NewHTTPHandler(
	tokenSignKey string,
	authService *usermanagement.AuthService,
	userDBConn *accountuser.AccountUserDBService,
	publisher bus.Publisher,
) *HttpEndpoints {
	return &HttpEndpoints{
		authService:  authService,
		userDBConn:   userDBConn,
		publisher:    publisher,
		tokenSignKey: tokenSignKey,
	}
}
