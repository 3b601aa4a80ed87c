// Package db contains things related to the database connection
package db

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"adiwals/cinegate-api/internal/model"
	"adiwals/cinegate-api/util"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("database.driver") {
	case "postgres":
		dial = postgres.Open(viper.GetString("database.dsn"))
	default:
		dsn := viper.GetString("database.dsn")

		// If running in a docker container don't allow the sqlite file to be created.
		// The host should instead mount it using volumes
		if util.IsRunningInDocker() && sqliteMissing(dsn) {
			return nil, fmt.Errorf("SQLite database file not mounted, please use docker volumes to mount it to /app/%s", dsn)
		}

		dial = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	err = db.AutoMigrate(
		model.VerifySettings{},
		model.SessionLedger{},
		model.VerifyToken{},
		model.Movie{},
		model.Series{},
		model.Season{},
		model.Episode{},
		model.Submission{},
		model.SupportMessage{},
		model.Notice{},
		model.Release{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}

func sqliteMissing(dsn string) bool {
	_, err := os.Stat(dsn)
	return errors.Is(err, fs.ErrNotExist)
}
