package cfg

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "GITGRADE"

type ViperLoader struct {
	ConfigPath string
	ConfigName string
	EnvFile    string

	v                     *viper.Viper
	once                  sync.Once
	mu                    sync.RWMutex
	cfgIns                *Config
	fileFound             bool
	configChangeCallbacks []func(*Config)
}

func NewViperLoader() (*ViperLoader, error) {
	return &ViperLoader{
		ConfigPath:            "cfg/yaml",
		ConfigName:            "mode",
		EnvFile:               ".env",
		v:                     viper.New(),
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (yl *ViperLoader) Load() (*Config, error) {
	var err error
	yl.once.Do(func() {
		err = yl.loadConfig()
		if err == nil && yl.IsWatchChange() {
			yl.v.OnConfigChange(func(e fsnotify.Event) {
				fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
				if errReload := yl.reloadConfig(); errReload != nil {
					fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
				}
			})
			yl.v.WatchConfig()
		}
	})

	if err != nil {
		return nil, err
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	return yl.cfgIns, nil
}

// IsWatchChange chỉ theo dõi thay đổi khi có file cấu hình thật
func (yl *ViperLoader) IsWatchChange() bool {
	return yl.fileFound
}

func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.configChangeCallbacks = append(yl.configChangeCallbacks, callback)
	yl.mu.Unlock()
}

func (yl *ViperLoader) loadConfig() error {
	// .env is optional, production injects real environment variables
	if yl.EnvFile != "" {
		_ = godotenv.Load(yl.EnvFile)
	}

	setDefaults(yl.v, Default())
	bindLegacyEnv(yl.v)
	yl.v.SetEnvPrefix(envPrefix)
	yl.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	yl.v.AutomaticEnv()

	yl.v.AddConfigPath(yl.ConfigPath)
	yl.v.SetConfigName(yl.ConfigName)
	yl.v.SetConfigType("yaml")
	if err := yl.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
	} else {
		yl.fileFound = true
	}

	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}

	yl.mu.Lock()
	yl.cfgIns = cfg
	yl.mu.Unlock()

	return nil
}

func (yl *ViperLoader) reloadConfig() error {
	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}

	yl.mu.Lock()
	yl.cfgIns = cfg
	callbacks := make([]func(*Config), len(yl.configChangeCallbacks))
	copy(callbacks, yl.configChangeCallbacks)
	yl.mu.Unlock()
	for _, callback := range callbacks {
		go callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}

// bindLegacyEnv keeps the plain variable names used by existing deployments working
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("githubapi.accesstoken", envPrefix+"_GITHUBAPI_ACCESSTOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("llm.apikey", envPrefix+"_LLM_APIKEY", "GEMINI_API_KEY")
	_ = v.BindEnv("payment.upiid", envPrefix+"_PAYMENT_UPIID", "PAYMENT_UPI_ID")
	_ = v.BindEnv("keepalive.url", envPrefix+"_KEEPALIVE_URL", "RENDER_EXTERNAL_URL")
	_ = v.BindEnv("server.port", envPrefix+"_SERVER_PORT", "PORT")
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.version", d.App.Version)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.readtimeoutsec", d.Server.ReadTimeoutSec)
	v.SetDefault("server.writetimeoutsec", d.Server.WriteTimeoutSec)
	v.SetDefault("server.idletimeoutsec", d.Server.IdleTimeoutSec)

	v.SetDefault("database.driver", d.Database.Driver)
	v.SetDefault("database.sqlitepath", d.Database.SqlitePath)

	v.SetDefault("mysql.host", d.Mysql.Host)
	v.SetDefault("mysql.port", d.Mysql.Port)
	v.SetDefault("mysql.username", d.Mysql.Username)
	v.SetDefault("mysql.password", d.Mysql.Password)
	v.SetDefault("mysql.database", d.Mysql.Database)
	v.SetDefault("mysql.maxidleconnection", d.Mysql.MaxIdleConnection)
	v.SetDefault("mysql.maxopenconnection", d.Mysql.MaxOpenConnection)
	v.SetDefault("mysql.maxlifetimeconnection", d.Mysql.MaxLifeTimeConnection)

	v.SetDefault("githubapi.accesstoken", d.GithubApi.AccessToken)
	v.SetDefault("githubapi.apiurl", d.GithubApi.ApiUrl)
	v.SetDefault("githubapi.requestspersecond", d.GithubApi.RequestsPerSecond)
	v.SetDefault("githubapi.timeoutsec", d.GithubApi.TimeoutSec)

	v.SetDefault("llm.provider", d.Llm.Provider)
	v.SetDefault("llm.model", d.Llm.Model)
	v.SetDefault("llm.apikey", d.Llm.ApiKey)
	v.SetDefault("llm.temperature", d.Llm.Temperature)
	v.SetDefault("llm.maxtokens", d.Llm.MaxTokens)
	v.SetDefault("llm.timeoutsec", d.Llm.TimeoutSec)

	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.producer.topicanalysis", d.Kafka.Producer.TopicAnalysis)
	v.SetDefault("kafka.consumer.groupid", d.Kafka.Consumer.GroupID)
	v.SetDefault("kafka.consumer.batchsize", d.Kafka.Consumer.BatchSize)
	v.SetDefault("kafka.consumer.batchtimeoutsec", d.Kafka.Consumer.BatchTimeoutSec)

	v.SetDefault("payment.upiid", d.Payment.UpiID)
	v.SetDefault("payment.payeename", d.Payment.PayeeName)

	v.SetDefault("keepalive.url", d.KeepAlive.Url)
	v.SetDefault("keepalive.intervalmin", d.KeepAlive.IntervalMin)

	v.SetDefault("log.backend", d.Log.Backend)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}
