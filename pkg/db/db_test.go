package db

import (
	"strings"
	"testing"

	"github.com/thep200/gitgrade/cfg"
)

type probe struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestNewSelectsDriver(t *testing.T) {
	config := cfg.Default()

	config.Database.Driver = ""
	conn, err := New(config)
	if err != nil || conn != nil {
		t.Errorf("empty driver should disable persistence, got %v, %v", conn, err)
	}

	config.Database.Driver = "sqlite"
	conn, err = New(config)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := conn.(*Sqlite); !ok {
		t.Errorf("expected *Sqlite, got %T", conn)
	}

	config.Database.Driver = "mysql"
	conn, err = New(config)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := conn.(*Mysql); !ok {
		t.Errorf("expected *Mysql, got %T", conn)
	}

	config.Database.Driver = "oracle"
	if _, err := New(config); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestSqliteMigrateAndPing(t *testing.T) {
	config := cfg.Default()
	config.Database.SqlitePath = ":memory:"
	conn, _ := NewSqlite(config)
	defer conn.Close()

	if err := conn.Ping(); err != nil {
		t.Fatal(err)
	}
	if err := conn.Migrate(&probe{}); err != nil {
		t.Fatal(err)
	}

	gdb, err := conn.Db()
	if err != nil {
		t.Fatal(err)
	}
	if err := gdb.Create(&probe{Name: "x"}).Error; err != nil {
		t.Fatal(err)
	}
	var count int64
	gdb.Model(&probe{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestMysqlDSN(t *testing.T) {
	config := cfg.Default()
	config.Mysql.Host = "db.local"
	config.Mysql.Port = "3306"
	config.Mysql.Username = "grader"
	config.Mysql.Password = "secret"
	config.Mysql.Database = "gitgrade"

	m, _ := NewMysql(config)
	dsn := m.DSN()
	for _, want := range []string{"grader:secret@tcp(db.local:3306)/gitgrade", "parseTime=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("dsn %q missing %q", dsn, want)
		}
	}
}

func TestCloseBeforeOpen(t *testing.T) {
	conn, _ := NewSqlite(cfg.Default())
	if err := conn.Close(); err != nil {
		t.Errorf("closing an unopened connector should be a no-op, got %v", err)
	}
}
