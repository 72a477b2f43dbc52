package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Nats     NatsConfig     `mapstructure:"nats"`
	Alerting AlertingConfig `mapstructure:"alerting"`
}

type AppConfig struct {
	Listen    string           `mapstructure:"listen"`
	Name      string           `mapstructure:"name"`
	Operators []OperatorConfig `mapstructure:"operators"`
}

// OperatorConfig is one operator login. PasswordHash is a bcrypt hash.
type OperatorConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

type SMTPConfig struct {
	Server   string   `mapstructure:"server"`
	Port     int      `mapstructure:"port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// SMSConfig points at the HTTP SMS gateway used for paging.
type SMSConfig struct {
	GatewayURL string   `mapstructure:"gateway_url"`
	Token      string   `mapstructure:"token"`
	Recipients []string `mapstructure:"recipients"`
}

type NatsConfig struct {
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type AlertingConfig struct {
	DedupWindowMinutes int `mapstructure:"dedup_window_minutes"`
	SnapshotTTLMinutes int `mapstructure:"snapshot_ttl_minutes"`
}

// DedupWindow returns the configured window, defaulting to 5 minutes.
func (a AlertingConfig) DedupWindow() time.Duration {
	if a.DedupWindowMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.DedupWindowMinutes) * time.Minute
}

// SnapshotTTL returns the active-snapshot TTL, defaulting to 1 hour.
func (a AlertingConfig) SnapshotTTL() time.Duration {
	if a.SnapshotTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.SnapshotTTLMinutes) * time.Minute
}

var (
	GlobalConfig *Config
	once         sync.Once
)

// InitConfig loads the yaml config file and applies environment overrides.
// Environment variables use the ALERTFLOW_ prefix, e.g. ALERTFLOW_REDIS_ADDR.
func InitConfig(path string) (*Config, error) {
	var initErr error
	once.Do(func() {
		v := viper.New()
		if path != "" {
			v.SetConfigFile(path)
		} else {
			v.AddConfigPath("./deploy")
			v.AddConfigPath(".")
			v.SetConfigName("conf")
			v.SetConfigType("yaml")
		}

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				initErr = fmt.Errorf("read config: %w", err)
				return
			}
		}

		v.SetEnvPrefix("ALERTFLOW")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		cfg := &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			initErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}
		if cfg.App.Listen == "" {
			cfg.App.Listen = ":8090"
		}
		GlobalConfig = cfg
	})
	if initErr != nil {
		return nil, initErr
	}
	return GlobalConfig, nil
}
