package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SMSService selects which vendor API the dispatcher talks to. It is an
// explicit operator choice; the dispatcher never guesses it from the
// template code.
type SMSService string

const (
	// SMSServiceGeneral uses the general SendSms action (plural PhoneNumbers).
	SMSServiceGeneral SMSService = "general"
	// SMSServiceVerify uses the dedicated phone-number verification action.
	SMSServiceVerify SMSService = "verify"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// Production reports whether the server runs in release mode. Demo
// verification codes are never exposed in responses when this is true.
func (s ServerConfig) Production() bool {
	return s.Mode == "release"
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type AuthConfig struct {
	// CodeTTL is the validity window of an issued verification code.
	CodeTTL time.Duration `mapstructure:"code_ttl"`
	// SessionTTL is how long a login session stays resolvable.
	SessionTTL time.Duration `mapstructure:"session_ttl"`
}

type SMSConfig struct {
	AccessKeyID     string        `mapstructure:"access_key_id"`
	AccessKeySecret string        `mapstructure:"access_key_secret"`
	SignName        string        `mapstructure:"sign_name"`
	TemplateCode    string        `mapstructure:"template_code"`
	Endpoint        string        `mapstructure:"endpoint"`
	RegionID        string        `mapstructure:"region_id"`
	Service         SMSService    `mapstructure:"service"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// Configured reports whether the vendor credentials are complete. Missing
// values degrade the auth flow to demo mode: codes are logged, not sent.
func (s SMSConfig) Configured() bool {
	return s.AccessKeyID != "" && s.AccessKeySecret != "" && s.SignName != "" && s.TemplateCode != ""
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: LNM_ (Lenormand).
// Nested keys use underscore: LNM_DATABASE_HOST, LNM_SMS_ACCESS_KEY_ID, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "lenormand")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("auth.code_ttl", "5m")
	v.SetDefault("auth.session_ttl", "720h")
	v.SetDefault("sms.access_key_id", "")
	v.SetDefault("sms.access_key_secret", "")
	v.SetDefault("sms.sign_name", "")
	v.SetDefault("sms.template_code", "")
	v.SetDefault("sms.endpoint", "dysmsapi.aliyuncs.com")
	v.SetDefault("sms.region_id", "cn-hangzhou")
	v.SetDefault("sms.service", "general")
	v.SetDefault("sms.timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: LNM_SMS_ACCESS_KEY_ID -> sms.access_key_id
	v.SetEnvPrefix("LNM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required — env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	switch cfg.SMS.Service {
	case SMSServiceGeneral, SMSServiceVerify:
	default:
		return nil, fmt.Errorf("invalid sms.service %q (want %q or %q)",
			cfg.SMS.Service, SMSServiceGeneral, SMSServiceVerify)
	}

	return &cfg, nil
}
