package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Storage StorageConfig
	JWT     JWTConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// RedisConfig 設定跨實例通知橋接，Addr 為空時停用
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig 設定本地媒體儲存的位置與公開網址
type StorageConfig struct {
	Root    string
	BaseURL string
}

type JWTConfig struct {
	Secret string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")

	// 環境變數覆蓋，例如 LIFTSOCIAL_DB_PASSWORD
	viper.SetEnvPrefix("liftsocial")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("storage.root", "./data/media")
	viper.SetDefault("storage.baseurl", "http://localhost:8080/media")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
