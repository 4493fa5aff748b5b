package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Narrative NarrativeConfig `mapstructure:"narrative"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	// WriteTimeout bounds a single websocket write so one stalled peer
	// cannot hold up a broadcast.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type NarrativeConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	// Timeout applied to every generation call. The upstream contract has
	// no timeout of its own, so this is the only bound on a slow model.
	Timeout time.Duration `mapstructure:"timeout"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.metrics_address", ":9100")
	viper.SetDefault("server.write_timeout", 5*time.Second)
	viper.SetDefault("narrative.base_url", "http://localhost:11434")
	viper.SetDefault("narrative.model", "llama3")
	viper.SetDefault("narrative.timeout", 120*time.Second)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
