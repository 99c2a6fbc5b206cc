package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Address string `yaml:"address"`
	} `yaml:"server"`
	Database struct {
		Driver string `yaml:"driver"`
		URL    string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	FCM struct {
		CredentialsFile string `yaml:"credentials_file"`
	} `yaml:"fcm"`
	Auth struct {
		SigningKey string `yaml:"signing_key"`
	} `yaml:"auth"`
}

func LoadConfig() Config {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Failed to unmarshal config data: %v", err)
	}

	if key := os.Getenv("JWT_SIGNING_KEY"); key != "" {
		cfg.Auth.SigningKey = key
	}
	return cfg
}
