package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EngineFile     = "file"
	EngineSQLite   = "sqlite3"
	EnginePostgres = "postgres"
	EngineMongo    = "mongo"
)

type (
	ServerConfig struct {
		Address                   string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	StoreConfig struct {
		Engine   string
		DSN      string // sqlite3 path, postgres URL or mongo URI
		Dir      string // file engine
		Database string // mongo database name
	}

	Config struct {
		Env              string
		Debug            bool
		TestMode         bool
		AppName          string
		Build            string
		SecretKey        string
		PasswordHasher   string
		DefaultFromEmail string
		RollbarToken     string
		SendgridAPIKey   string
		Server           ServerConfig
		Store            StoreConfig
	}
)

// NewConfig loads the configuration from the environment.
// ENV selects DEV (default), TEST, QA or PROD; a matching config/.env.<env> file is loaded when present.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "HRMS")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "k2v#x9!q7w@hrms-dev-only-3p0z$1m8n")
	conf.SetDefault("passwordHasher", "plain")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("sendgridAPIKey", "")
	conf.SetDefault("server.address", ":8000")
	conf.SetDefault("server.shutdownTimeout", 10*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("store.engine", EngineFile)
	conf.SetDefault("store.dsn", "")
	conf.SetDefault("store.dir", "data")
	conf.SetDefault("store.database", "hrms")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
		conf.SetDefault("store.engine", EngineMemory)
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:              env,
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		AppName:          conf.GetString("appName"),
		Build:            conf.GetString("build"),
		SecretKey:        conf.GetString("secretKey"),
		PasswordHasher:   conf.GetString("passwordHasher"),
		DefaultFromEmail: conf.GetString("defaultFromEmail"),
		RollbarToken:     conf.GetString("rollbarToken"),
		SendgridAPIKey:   conf.GetString("sendgridAPIKey"),
		Server: ServerConfig{
			Address:                   conf.GetString("server.address"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Store: StoreConfig{
			Engine:   conf.GetString("store.engine"),
			DSN:      conf.GetString("store.dsn"),
			Dir:      conf.GetString("store.dir"),
			Database: conf.GetString("store.database"),
		},
	}
}
