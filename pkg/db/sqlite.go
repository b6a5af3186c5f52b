package db

import (
	"database/sql"
	"sync"

	"github.com/glebarez/sqlite"
	"github.com/thep200/gitgrade/cfg"
	"gorm.io/gorm"
)

// Sqlite là backend nhúng (pure Go, modernc.org/sqlite), dùng khi không có MySQL
type Sqlite struct {
	Config  *cfg.Config
	once    sync.Once
	db      *gorm.DB
	initErr error
}

func NewSqlite(config *cfg.Config) (*Sqlite, error) {
	return &Sqlite{
		Config: config,
	}, nil
}

func (s *Sqlite) DSN() string {
	path := s.Config.Database.SqlitePath
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared&_pragma=busy_timeout(5000)"
	}
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

func (s *Sqlite) Db() (*gorm.DB, error) {
	s.once.Do(func() {
		var db *gorm.DB
		db, s.initErr = gorm.Open(sqlite.Open(s.DSN()), gormConfig())
		if s.initErr != nil {
			return
		}

		var sqlDB *sql.DB
		sqlDB, s.initErr = db.DB()
		if s.initErr != nil {
			return
		}
		// one writer at a time, also keeps a :memory: database alive on a single connection
		sqlDB.SetMaxOpenConns(1)

		s.db = db
	})
	return s.db, s.initErr
}

func (s *Sqlite) Ping() error {
	return ping(s)
}

func (s *Sqlite) Close() error {
	return closeDB(s.db)
}

func (s *Sqlite) Migrate(models ...interface{}) error {
	return migrate(s, models...)
}
