package main

import (
	"log/slog"
	"os"

	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db"
	"github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/utils"
	"gopkg.in/yaml.v2"

	accountuserDB "github.com/olusegunjoseph66/AccountMicroservicesAZ/pkg/db/account-user"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_ACCOUNT_USER_DB_USERNAME = "ACCOUNT_USER_DB_USERNAME"
	ENV_ACCOUNT_USER_DB_PASSWORD = "ACCOUNT_USER_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		AccountUserDB db.DBConfigYaml `json:"account_user_db" yaml:"account_user_db"`
	} `json:"db_configs" yaml:"db_configs"`

	RunTasks struct {
		ExpirePasswords bool `json:"expire_passwords" yaml:"expire_passwords"`
	} `json:"run_tasks" yaml:"run_tasks"`
}

var conf config

var (
	accountUserDBService *accountuserDB.AccountUserDBService
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

	// init db
	initDBs()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_ACCOUNT_USER_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.AccountUserDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_ACCOUNT_USER_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.AccountUserDB.Password = dbPassword
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
