package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Env  string `mapstructure:"env"`
	Port int    `mapstructure:"port"`
}

type ChatConfig struct {
	RetentionWindowSeconds int    `mapstructure:"retention_window_seconds"`
	DefaultRoom            string `mapstructure:"default_room"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type WSConfig struct {
	PingIntervalSeconds  int   `mapstructure:"ping_interval_seconds"`
	WriteDeadlineSeconds int   `mapstructure:"write_deadline_seconds"`
	ReadDeadlineSeconds  int   `mapstructure:"read_deadline_seconds"`
	MaxMessageSizeBytes  int64 `mapstructure:"max_message_size_bytes"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type PersistenceConfig struct {
	Backend  string      `mapstructure:"backend"` // "file", "redis" or "mongo"
	FilePath string      `mapstructure:"file_path"`
	Redis    RedisConfig `mapstructure:"redis"`
	Mongo    MongoConfig `mapstructure:"mongo"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Chat        ChatConfig        `mapstructure:"chat"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	WS          WSConfig          `mapstructure:"ws"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`

	// derived
	RetentionWindow time.Duration
	PingInterval    time.Duration
	WriteDeadline   time.Duration
	ReadDeadline    time.Duration
}

// Load reads the config file at path with env-var overrides. A missing file
// is fine; defaults then apply across the board.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	if c.App.Port == 0 {
		c.App.Port = 8080
	}
	if c.Chat.RetentionWindowSeconds == 0 {
		c.Chat.RetentionWindowSeconds = 600
	}
	if c.Chat.DefaultRoom == "" {
		c.Chat.DefaultRoom = "default"
	}
	if c.WS.PingIntervalSeconds == 0 {
		c.WS.PingIntervalSeconds = 25
	}
	if c.WS.WriteDeadlineSeconds == 0 {
		c.WS.WriteDeadlineSeconds = 10
	}
	if c.WS.ReadDeadlineSeconds == 0 {
		c.WS.ReadDeadlineSeconds = 60
	}
	if c.WS.MaxMessageSizeBytes == 0 {
		c.WS.MaxMessageSizeBytes = 65536
	}
	if c.Persistence.Backend == "" {
		c.Persistence.Backend = "file"
	}
	if c.Persistence.FilePath == "" {
		c.Persistence.FilePath = "saves/state.json"
	}
	if c.Persistence.Redis.Key == "" {
		c.Persistence.Redis.Key = "chatroom:state"
	}
	if c.Persistence.Mongo.Database == "" {
		c.Persistence.Mongo.Database = "chatroom"
	}
	if c.Persistence.Mongo.Collection == "" {
		c.Persistence.Mongo.Collection = "state"
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "chat.message.sent"
	}

	c.RetentionWindow = time.Duration(c.Chat.RetentionWindowSeconds) * time.Second
	c.PingInterval = time.Duration(c.WS.PingIntervalSeconds) * time.Second
	c.WriteDeadline = time.Duration(c.WS.WriteDeadlineSeconds) * time.Second
	c.ReadDeadline = time.Duration(c.WS.ReadDeadlineSeconds) * time.Second
}
