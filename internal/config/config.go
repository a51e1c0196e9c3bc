package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration struct, shared by the server and the CLI.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Client   ClientConfig   `mapstructure:"client"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// AuthConfig holds token signing settings and the bootstrap admin account.
type AuthConfig struct {
	TokenSecret   string        `mapstructure:"tokenSecret"`
	TokenTTL      time.Duration `mapstructure:"tokenTTL"`
	AdminEmail    string        `mapstructure:"adminEmail"`
	AdminPassword string        `mapstructure:"adminPassword"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

// ClientConfig holds CLI-side settings: where the API lives and where the
// local state database goes.
type ClientConfig struct {
	ServerURL string `mapstructure:"serverURL"`
	StateDir  string `mapstructure:"stateDir"`
}

// Load reads configuration from file and environment.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.tokenTTL", 24*time.Hour)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("client.serverURL", "http://localhost:8080")
	v.SetDefault("client.stateDir", defaultStateDir())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sysboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(homeDir(), ".sysboard"))
		v.AddConfigPath("/etc/sysboard")
	}

	v.SetEnvPrefix("SYSBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultStateDir() string {
	return filepath.Join(homeDir(), ".sysboard", "state")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
