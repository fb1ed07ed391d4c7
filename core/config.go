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

type (
	Config struct {
		Env          string
		Build        string
		Debug        bool
		TestMode     bool
		AppName      string
		SecretKey    string
		RollbarToken string

		Server   ServerConfig
		Identity IdentityConfig
		Database DatabaseConfig
	}

	ServerConfig struct {
		Host               string
		Addr               string
		DebugHost          string
		AllowOrigins       []string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	// IdentityConfig points to the external identity provider (GoTrue + PostgREST).
	IdentityConfig struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	DatabaseConfig struct {
		URL          string
		MaxOpenConns int
		MaxIdleConns int
	}
)

func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("appName", "App Personal")
	conf.SetDefault("secretKey", "x1t#9p-q8(w3h!e^fr7yb@uk0=sm2$jz4&l)dv+nc5oga6_")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugHost", "localhost:4000")
	conf.SetDefault("serverAllowOrigins", []string{"*"})
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 12*time.Hour)
	conf.SetDefault("identityTimeout", 10*time.Second)
	conf.SetDefault("databaseMaxOpenConns", 4)
	conf.SetDefault("databaseMaxIdleConns", 0) // release connections after each statement

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:          env,
		Build:        conf.GetString("build"),
		Debug:        conf.GetBool("debug"),
		TestMode:     conf.GetBool("testMode"),
		AppName:      conf.GetString("appName"),
		SecretKey:    conf.GetString("secretKey"),
		RollbarToken: conf.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:               conf.GetString("serverHost"),
			Addr:               conf.GetString("serverAddr"),
			DebugHost:          conf.GetString("serverDebugHost"),
			AllowOrigins:       conf.GetStringSlice("serverAllowOrigins"),
			ShutdownTimeout:    conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
		},
		Identity: IdentityConfig{
			BaseURL: strings.TrimRight(conf.GetString("identityBaseURL"), "/"),
			APIKey:  conf.GetString("identityAPIKey"),
			Timeout: conf.GetDuration("identityTimeout"),
		},
		Database: DatabaseConfig{
			URL:          conf.GetString("databaseURL"),
			MaxOpenConns: conf.GetInt("databaseMaxOpenConns"),
			MaxIdleConns: conf.GetInt("databaseMaxIdleConns"),
		},
	}
}
