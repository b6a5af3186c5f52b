package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Server struct {
		Port            int
		ReadTimeoutSec  int
		WriteTimeoutSec int
		IdleTimeoutSec  int
	}

	// Database chọn driver cho lưu trữ kết quả phân tích: "mysql", "sqlite" hoặc "" (tắt)
	Database struct {
		Driver     string
		SqlitePath string
	}

	Mysql struct {
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	GithubApi struct {
		AccessToken       string
		ApiUrl            string
		RequestsPerSecond int
		TimeoutSec        int
	}

	Llm struct {
		Provider    string
		Model       string
		ApiKey      string
		Temperature float64
		MaxTokens   int
		TimeoutSec  int
	}

	KafkaProducer struct {
		TopicAnalysis string
	}

	KafkaConsumer struct {
		GroupID         string
		BatchSize       int
		BatchTimeoutSec int
	}

	Kafka struct {
		Brokers  []string
		Producer KafkaProducer
		Consumer KafkaConsumer
	}

	Payment struct {
		UpiID     string
		PayeeName string
	}

	KeepAlive struct {
		Url         string
		IntervalMin int
	}

	Log struct {
		Backend string
		Level   string
		Format  string
	}
)

type Config struct {
	App       App
	Server    Server
	Database  Database
	Mysql     Mysql
	GithubApi GithubApi
	Llm       Llm
	Kafka     Kafka
	Payment   Payment
	KeepAlive KeepAlive
	Log       Log
}
