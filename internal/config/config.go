// Package config loads service settings from the environment. The AEGIS_*
// variable names match the deployment manifests.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

type Settings struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	URL            string
	MaxConnections int
}

type JWTConfig struct {
	Secret         string
	ExpirationDays int
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// Load reads settings from the environment. The JWT secret is the only hard
// requirement; everything else has a workable default.
func Load() (*Settings, error) {
	s := &Settings{
		Server: ServerConfig{
			Host: envOr("AEGIS_SERVER__HOST", "0.0.0.0"),
			Port: 8080,
		},
		Database: DatabaseConfig{
			URL:            os.Getenv("AEGIS_DATABASE__URL"),
			MaxConnections: 10,
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("AEGIS_JWT__SECRET"),
			ExpirationDays: 7,
		},
		SMTP: SMTPConfig{
			Host: os.Getenv("AEGIS_SMTP__HOST"),
			Port: envOr("AEGIS_SMTP__PORT", "587"),
			User: os.Getenv("AEGIS_SMTP__USER"),
			Pass: os.Getenv("AEGIS_SMTP__PASS"),
			From: os.Getenv("AEGIS_SMTP__FROM"),
		},
	}
	if s.JWT.Secret == "" {
		return nil, errors.New("AEGIS_JWT__SECRET is required")
	}
	if err := overrideInt("AEGIS_SERVER__PORT", &s.Server.Port); err != nil {
		return nil, err
	}
	if err := overrideInt("AEGIS_DATABASE__MAX_CONNECTIONS", &s.Database.MaxConnections); err != nil {
		return nil, err
	}
	if err := overrideInt("AEGIS_JWT__EXPIRATION", &s.JWT.ExpirationDays); err != nil {
		return nil, err
	}
	return s, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func overrideInt(key string, dst *int) error {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
