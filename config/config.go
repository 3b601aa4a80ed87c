// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var (
	hashPassword   = pflag.String("hash-password", "", "Prints the Argon2id hash of the given password and exits")
	validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	validDrivers   = []string{"sqlite", "postgres"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HashPasswordArg returns the value of the -hash-password flag. Used by
// main to print an admin password hash without starting the server.
func HashPasswordArg() string {
	return *hashPassword
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.base_url", "host_base_url")

	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")
	v.BindEnv("host.ssl.certificate_path", "host_ssl_certificate_path")
	v.BindEnv("host.ssl.certificate_key_path", "host_ssl_certificate_key_path")

	v.BindEnv("jwt.secret", "jwt_secret")

	v.BindEnv("database.driver", "database_driver")
	v.BindEnv("database.dsn", "database_dsn")

	v.BindEnv("admin.password_hash", "admin_password_hash")

	v.BindEnv("verification.timezone", "verification_timezone")
	v.BindEnv("verification.settings_cache_ttl", "verification_settings_cache_ttl")

	v.BindEnv("shortlink.api_url", "shortlink_api_url")
	v.BindEnv("shortlink.api_key", "shortlink_api_key")

	v.BindEnv("storage.type", "storage_type")
	v.BindEnv("storage.local_dir", "storage_local_dir")

	v.BindEnv("cloudflare.account_id", "cloudflare_account_id")
	v.BindEnv("cloudflare.access_key_id", "cloudflare_access_key_id")
	v.BindEnv("cloudflare.secret_access_key", "cloudflare_secret_access_key")
	v.BindEnv("cloudflare.bucket", "cloudflare_bucket")
	v.BindEnv("cloudflare.public_url", "cloudflare_public_url")

	v.BindEnv("cache.redis_addr", "cache_redis_addr")

	v.BindEnv("pipeline.enabled", "pipeline_enabled")
	v.BindEnv("pipeline.cron", "pipeline_cron")
	v.BindEnv("pipeline.workers", "pipeline_workers")
	v.BindEnv("pipeline.forum_url", "pipeline_forum_url")
	v.BindEnv("pipeline.debrid_api_url", "pipeline_debrid_api_url")
	v.BindEnv("pipeline.debrid_api_key", "pipeline_debrid_api_key")
	v.BindEnv("pipeline.ppd_api_url", "pipeline_ppd_api_url")
	v.BindEnv("pipeline.ppd_api_key", "pipeline_ppd_api_key")
	v.BindEnv("pipeline.tmdb_api_url", "pipeline_tmdb_api_url")
	v.BindEnv("pipeline.tmdb_api_key", "pipeline_tmdb_api_key")

	v.BindEnv("telegram.bot_token", "telegram_bot_token")
	v.BindEnv("telegram.admin_chat_id", "telegram_admin_chat_id")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.base_url", "http://localhost:8080")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("verification.timezone", "Asia/Kolkata")
	v.SetDefault("verification.settings_cache_ttl", 30*time.Second)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_dir", "static/posters")

	v.SetDefault("pipeline.enabled", false)
	v.SetDefault("pipeline.cron", "@every 30m")
	v.SetDefault("pipeline.workers", 1)
	v.SetDefault("pipeline.debrid_api_url", "https://debrid-link.com/api/v2")
	v.SetDefault("pipeline.tmdb_api_url", "https://api.themoviedb.org/3")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); ok {
			return errors.New("config.toml file is missing")
		}

		return fmt.Errorf("failed to read config file, %w", err)
	}

	// Hashing a password doesn't need the rest of the config to be valid
	if *hashPassword != "" {
		return nil
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetBool("host.ssl.enabled") {
		if v.GetString("host.ssl.certificate_path") == "" {
			return errors.New("no ssl certificate path provided")
		}

		if v.GetString("host.ssl.certificate_key_path") == "" {
			return errors.New("no ssl certificate key path provided")
		}
	}

	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret, so it has been generated for you. Please set it as an environment variable or in the config.toml file.\nYour random JWT secret:\n\n" + genSecret() + "\n\nPaste it into your config.toml file.")
		os.Exit(0)
	}

	if !slices.Contains(validDrivers, v.GetString("database.driver")) {
		return errors.New("invalid database driver provided")
	}

	if v.GetString("admin.password_hash") == "" {
		fmt.Println("WARNING: admin.password_hash is empty, the admin panel will be unreachable. Generate one with -hash-password <password>")
	}

	if _, err := time.LoadLocation(v.GetString("verification.timezone")); err != nil {
		return fmt.Errorf("invalid verification.timezone, %w", err)
	}

	switch v.GetString("storage.type") {
	case "s3":
		{
			if v.GetString("cloudflare.account_id") == "" {
				return errors.New("account id can't be empty")
			}
			if v.GetString("cloudflare.access_key_id") == "" {
				return errors.New("account access id can't be empty")
			}
			if v.GetString("cloudflare.secret_access_key") == "" {
				return errors.New("secret access key can't be empty")
			}
			if v.GetString("cloudflare.bucket") == "" {
				return errors.New("bucket can't be empty")
			}
			if v.GetString("cloudflare.public_url") == "" {
				return errors.New("public url can't be empty")
			}
		}
	case "local":
	default:
		return errors.New("invalid storage type provided")
	}

	if v.GetBool("pipeline.enabled") {
		if v.GetString("pipeline.forum_url") == "" {
			return errors.New("pipeline.forum_url can't be empty")
		}
		if v.GetString("pipeline.debrid_api_key") == "" {
			return errors.New("pipeline.debrid_api_key can't be empty")
		}
		if v.GetString("pipeline.ppd_api_url") == "" {
			return errors.New("pipeline.ppd_api_url can't be empty")
		}
		if v.GetInt("pipeline.workers") <= 0 {
			return errors.New("pipeline.workers must be bigger than 0")
		}
	}

	if v.GetString("shortlink.api_url") == "" {
		fmt.Println("[WARNING]: No shortlink service configured. Verification links will point straight at the callback URL")
	}

	return nil
}
