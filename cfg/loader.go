package cfg

import (
	"sync"
)

var (
	loader     Loader
	loaderOnce sync.Once
)

type Loader interface {
	Load() (*Config, error)
}

// NewLoader registers the process-wide loader. Only the first call wins.
func NewLoader(l Loader) (Loader, error) {
	loaderOnce.Do(func() {
		loader = l
	})
	return loader, nil
}

// Default returns the values used when neither the yaml file nor the environment set a key
func Default() *Config {
	return &Config{
		App: App{
			Name:    "gitgrade",
			Version: "2.0.0",
		},
		Server: Server{
			Port:            8000,
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 120,
			IdleTimeoutSec:  60,
		},
		Database: Database{
			Driver:     "sqlite",
			SqlitePath: "gitgrade.db",
		},
		Mysql: Mysql{
			Host:                  "127.0.0.1",
			Port:                  "3306",
			Username:              "root",
			Database:              "gitgrade",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},
		GithubApi: GithubApi{
			ApiUrl:            "https://api.github.com/",
			RequestsPerSecond: 10,
			TimeoutSec:        30,
		},
		Llm: Llm{
			Provider:    "gemini",
			Model:       "gemini-2.5-flash-lite",
			Temperature: 0.2,
			MaxTokens:   4096,
			TimeoutSec:  60,
		},
		Kafka: Kafka{
			Producer: KafkaProducer{
				TopicAnalysis: "gitgrade.analyses",
			},
			Consumer: KafkaConsumer{
				GroupID:         "analysis-consumer-group",
				BatchSize:       100,
				BatchTimeoutSec: 5,
			},
		},
		Payment: Payment{
			UpiID:     "yourname@upi",
			PayeeName: "GitGrade Support",
		},
		KeepAlive: KeepAlive{
			IntervalMin: 14,
		},
		Log: Log{
			Backend: "logrus",
			Level:   "info",
			Format:  "text",
		},
	}
}
