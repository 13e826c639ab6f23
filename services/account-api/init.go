package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/apihelpers"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/cache"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/messaging/bus"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/sap"
	usermanagement "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/user-management/pwhash"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/utils"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"

	accountuserDB "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACCOUNT_USER_DB_USERNAME = "ACCOUNT_USER_DB_USERNAME"
	ENV_ACCOUNT_USER_DB_PASSWORD = "ACCOUNT_USER_DB_PASSWORD"

	ENV_REDIS_PASSWORD = "REDIS_PASSWORD"

	ENV_ACCOUNT_USER_JWT_SIGN_KEY   = "ACCOUNT_USER_JWT_SIGN_KEY"
	ENV_ACCOUNT_USER_JWT_EXPIRES_IN = "ACCOUNT_USER_JWT_EXPIRES_IN"

	sapDirectoryServiceName = "sap-directory"
)

type AccountApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`

		// Mutual TLS configs
		MTLS struct {
			Use              bool                        `json:"use" yaml:"use"`
			CertificatePaths apihelpers.CertificatePaths `json:"certificate_paths" yaml:"certificate_paths"`
		} `json:"mtls" yaml:"mtls"`
	} `json:"gin_config" yaml:"gin_config"`

	// user management configs
	UserManagementConfig struct {
		PWHashing struct {
			Argon2Memory      uint32 `json:"argon2_memory" yaml:"argon2_memory"`
			Argon2Iterations  uint32 `json:"argon2_iterations" yaml:"argon2_iterations"`
			Argon2Parallelism uint8  `json:"argon2_parallelism" yaml:"argon2_parallelism"`
		} `json:"pw_hashing" yaml:"pw_hashing"`
		AccountUserJWTConfig struct {
			SignKey   string        `json:"sign_key" yaml:"sign_key"`
			ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
		} `json:"account_user_jwt_config" yaml:"account_user_jwt_config"`
		LockoutThreshold     int           `json:"lockout_threshold" yaml:"lockout_threshold"`
		LockoutWindow        time.Duration `json:"lockout_window" yaml:"lockout_window"`
		OtpLength            int           `json:"otp_length" yaml:"otp_length"`
		OtpTTL               time.Duration `json:"otp_ttl" yaml:"otp_ttl"`
		AccountLinkTTL       time.Duration `json:"account_link_ttl" yaml:"account_link_ttl"`
		ResetTokenTTL        time.Duration `json:"reset_token_ttl" yaml:"reset_token_ttl"`
		PasswordValidity     time.Duration `json:"password_validity" yaml:"password_validity"`
		PasswordHistoryDepth int64         `json:"password_history_depth" yaml:"password_history_depth"`
	} `json:"user_management_config" yaml:"user_management_config"`

	// DB configs
	DBConfigs struct {
		AccountUserDB db.DBConfigYaml `json:"account_user_db" yaml:"account_user_db"`
	} `json:"db_configs" yaml:"db_configs"`

	CacheConfig cache.RedisCacheConfig `json:"cache_config" yaml:"cache_config"`

	SapDirectoryConfig sap.ClientConfig `json:"sap_directory_config" yaml:"sap_directory_config"`
}

var (
	accountUserDBService *accountuserDB.AccountUserDBService
	cacheService         *cache.RedisCacheService
	eventPublisher       *bus.EventBusPublisher
	authService          *usermanagement.AuthService
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
		conf.Logging.IncludeBuildInfo,
	)

	// Override secrets from environment variables
	secretsOverride()

	// Init DB and cache
	initDBs()
	initCache()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// init argon2
	pwhash.InitArgonParams(
		conf.UserManagementConfig.PWHashing.Argon2Memory,
		conf.UserManagementConfig.PWHashing.Argon2Iterations,
		conf.UserManagementConfig.PWHashing.Argon2Parallelism,
	)

	initAuthService()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ACCOUNT_USER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AccountUserDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACCOUNT_USER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AccountUserDB.Password = dbPassword
	}

	if redisPassword := os.Getenv(ENV_REDIS_PASSWORD); redisPassword != "" {
		conf.CacheConfig.Password = redisPassword
	}

	if jwtSignKey := os.Getenv(ENV_ACCOUNT_USER_JWT_SIGN_KEY); jwtSignKey != "" {
		conf.UserManagementConfig.AccountUserJWTConfig.SignKey = jwtSignKey
	}

	if expiresIn := os.Getenv(ENV_ACCOUNT_USER_JWT_EXPIRES_IN); expiresIn != "" {
		d, err := utils.ParseDurationString(expiresIn)
		if err != nil {
			slog.Error("invalid value for "+ENV_ACCOUNT_USER_JWT_EXPIRES_IN, slog.String("error", err.Error()))
			panic(err)
		}
		conf.UserManagementConfig.AccountUserJWTConfig.ExpiresIn = d
	}

	if apiKey := os.Getenv(utils.GenerateExternalServiceAPIKeyEnvVarName(sapDirectoryServiceName)); apiKey != "" {
		conf.SapDirectoryConfig.APIKey = apiKey
	}
}

func initDBs() {
	var err error
	accountUserDBService, err = accountuserDB.NewAccountUserDBService(db.DBConfigFromYamlObj(conf.DBConfigs.AccountUserDB))
	if err != nil {
		slog.Error("Error connecting to Account User DB", slog.String("error", err.Error()))
		panic(err)
	}
}

func initCache() {
	var err error
	cacheService, err = cache.NewRedisCacheService(conf.CacheConfig)
	if err != nil {
		slog.Error("Error connecting to cache", slog.String("error", err.Error()))
		panic(err)
	}
}

func initAuthService() {
	eventPublisher = bus.NewEventBusPublisher()

	authService = usermanagement.NewAuthService(
		accountUserDBService,
		cacheService,
		eventPublisher,
		sap.NewClient(conf.SapDirectoryConfig),
		usermanagement.JwtTokenIssuer{SignKey: conf.UserManagementConfig.AccountUserJWTConfig.SignKey},
		usermanagement.AuthServiceConfig{
			LockoutThreshold:     conf.UserManagementConfig.LockoutThreshold,
			LockoutWindow:        conf.UserManagementConfig.LockoutWindow,
			OtpLength:            conf.UserManagementConfig.OtpLength,
			OtpTTL:               conf.UserManagementConfig.OtpTTL,
			AccountLinkTTL:       conf.UserManagementConfig.AccountLinkTTL,
			TokenExpiresIn:       conf.UserManagementConfig.AccountUserJWTConfig.ExpiresIn,
			ResetTokenTTL:        conf.UserManagementConfig.ResetTokenTTL,
			PasswordValidity:     conf.UserManagementConfig.PasswordValidity,
			PasswordHistoryDepth: conf.UserManagementConfig.PasswordHistoryDepth,
		},
	)
}
