package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port     string         `mapstructure:"port"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DSN builds the Postgres connection string. Empty host means run without
// a database (in-memory store).
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", d.User, d.Password, d.Host, d.Port, d.Name)
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("port", "8080")
	viper.SetDefault("database.host", "")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "momentum")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.name", "momentum")
	viper.SetDefault("redis.addr", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("cors.allowed_origins", []string{"*"})

	viper.SetEnvPrefix("MOMENTUM")
	viper.AutomaticEnv()
	viper.BindEnv("port", "PORT")
	viper.BindEnv("database.host", "MOMENTUM_DB_HOST")
	viper.BindEnv("database.port", "MOMENTUM_DB_PORT")
	viper.BindEnv("database.user", "MOMENTUM_DB_USER")
	viper.BindEnv("database.password", "MOMENTUM_DB_PASSWORD")
	viper.BindEnv("database.name", "MOMENTUM_DB_NAME")
	viper.BindEnv("redis.addr", "MOMENTUM_REDIS_ADDR")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// No config file; defaults and env vars apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
