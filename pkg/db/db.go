package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thep200/gitgrade/cfg"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connector is implemented by every supported database backend
type Connector interface {
	Db() (*gorm.DB, error)
	Ping() error
	Close() error
	Migrate(models ...interface{}) error
}

// New picks the backend from Database.Driver. An empty driver disables persistence
// and returns a nil Connector.
func New(config *cfg.Config) (Connector, error) {
	switch config.Database.Driver {
	case "":
		return nil, nil
	case "mysql":
		return NewMysql(config)
	case "sqlite":
		return NewSqlite(config)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}
}

func gormConfig() *gorm.Config {
	return &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
}

func setPool(sqlDB *sql.DB, config *cfg.Config) {
	sqlDB.SetMaxIdleConns(config.Mysql.MaxIdleConnection)
	sqlDB.SetMaxOpenConns(config.Mysql.MaxOpenConnection)
	sqlDB.SetConnMaxLifetime(time.Duration(config.Mysql.MaxLifeTimeConnection) * time.Second)
}

func ping(c Connector) error {
	db, err := c.Db()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func closeDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func migrate(c Connector, models ...interface{}) error {
	db, err := c.Db()
	if err != nil {
		return err
	}
	return db.AutoMigrate(models...)
}
