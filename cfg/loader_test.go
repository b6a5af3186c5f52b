package cfg

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestLoader(t *testing.T, yaml string) *ViperLoader {
	t.Helper()
	dir := t.TempDir()
	if yaml != "" {
		if err := os.WriteFile(filepath.Join(dir, "mode.yaml"), []byte(yaml), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l, err := NewViperLoader()
	if err != nil {
		t.Fatal(err)
	}
	l.ConfigPath = dir
	l.EnvFile = ""
	return l
}

func TestViperLoaderDefaultsWithoutFile(t *testing.T) {
	l := newTestLoader(t, "")
	c, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", c.Server.Port)
	}
	if c.Llm.Provider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", c.Llm.Provider)
	}
	if l.IsWatchChange() {
		t.Error("should not watch when no config file exists")
	}
}

func TestViperLoaderReadsYaml(t *testing.T) {
	l := newTestLoader(t, "server:\n  port: 9100\ndatabase:\n  driver: mysql\n")
	c, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", c.Server.Port)
	}
	if c.Database.Driver != "mysql" {
		t.Errorf("expected driver mysql, got %q", c.Database.Driver)
	}
	if c.Mysql.MaxOpenConnection != 100 {
		t.Errorf("expected default pool size to survive, got %d", c.Mysql.MaxOpenConnection)
	}
}

func TestViperLoaderEnvOverrides(t *testing.T) {
	t.Setenv("GITGRADE_LLM_MODEL", "gpt-4o")
	t.Setenv("GITHUB_TOKEN", "ghp_legacy")
	t.Setenv("GITGRADE_KAFKA_BROKERS", "k1:9092,k2:9092")
	l := newTestLoader(t, "llm:\n  model: gemini-2.5-flash-lite\n")
	c, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Llm.Model != "gpt-4o" {
		t.Errorf("expected env model override, got %q", c.Llm.Model)
	}
	if c.GithubApi.AccessToken != "ghp_legacy" {
		t.Errorf("expected GITHUB_TOKEN to bind, got %q", c.GithubApi.AccessToken)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("unexpected brokers: %v", c.Kafka.Brokers)
	}
}

func TestMockLoaderOverride(t *testing.T) {
	l, _ := NewMockLoader()
	l.Override = func(c *Config) { c.Server.Port = 1234 }
	c, err := l.Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Server.Port != 1234 {
		t.Errorf("override not applied: %d", c.Server.Port)
	}
	if c.Database.SqlitePath != ":memory:" {
		t.Errorf("mock loader should use in-memory sqlite, got %q", c.Database.SqlitePath)
	}
}
