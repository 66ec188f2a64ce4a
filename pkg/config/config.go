// Package config handles pre-database configuration: the location of the
// sqlite file, listen address, auth secrets and the remote font catalog
// endpoint. Values come from an optional yaml file with FONTHUB_* env
// overrides.
package config

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

func Init() {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".fonthub")
	viper.AddConfigPath(home)
	viper.AutomaticEnv()

	viper.BindEnv("db_path", "FONTHUB_DB_PATH")
	viper.BindEnv("listen_address", "FONTHUB_LISTEN_ADDRESS")
	viper.BindEnv("jwt_secret", "FONTHUB_JWT_SECRET")
	viper.BindEnv("jwt_issuer", "FONTHUB_JWT_ISSUER")
	viper.BindEnv("jwt_ttl", "FONTHUB_JWT_TTL")
	viper.BindEnv("nonce_secret", "FONTHUB_NONCE_SECRET")
	viper.BindEnv("catalog_api_url", "FONTHUB_CATALOG_API_URL")
	viper.BindEnv("catalog_css_url", "FONTHUB_CATALOG_CSS_URL")

	viper.SetDefault("db_path", filepath.Join(home, ".fonthub", "data.db"))
	viper.SetDefault("listen_address", ":8080")
	viper.SetDefault("jwt_secret", "dev-secret-change-me")
	viper.SetDefault("jwt_issuer", "fonthub")
	viper.SetDefault("jwt_ttl", 24*time.Hour)
	viper.SetDefault("nonce_secret", "dev-nonce-change-me")
	viper.SetDefault("catalog_api_url", "https://www.googleapis.com/webfonts/v1/webfonts")
	viper.SetDefault("catalog_css_url", "https://fonts.googleapis.com/css")

	if err := viper.ReadInConfig(); err != nil {
		// config file is optional
		log.Printf("[config] no config file: %v", err)
	}
}

func DBPath() string         { return viper.GetString("db_path") }
func ListenAddress() string  { return viper.GetString("listen_address") }
func JWTSecret() string      { return viper.GetString("jwt_secret") }
func JWTIssuer() string      { return viper.GetString("jwt_issuer") }
func JWTTTL() time.Duration  { return viper.GetDuration("jwt_ttl") }
func NonceSecret() string    { return viper.GetString("nonce_secret") }
func CatalogAPIURL() string  { return viper.GetString("catalog_api_url") }
func CatalogCSSURL() string  { return viper.GetString("catalog_css_url") }
