package database

import (
	"fmt"
	"net/url"

	"spendwise/internal/config"
)

// Config holds database configuration
type Config struct {
	Backend  string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string

	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

// NewConfig derives the database configuration from the application config.
func NewConfig(app *config.Config) *Config {
	return &Config{
		Backend:       app.StorageBackend,
		Host:          app.DBHost,
		Port:          app.DBPort,
		User:          app.DBUser,
		Password:      app.DBPassword,
		DBName:        app.DBName,
		SSLMode:       app.DBSSLMode,
		SQLitePath:    app.SQLitePath,
		MongoURI:      app.MongoURI,
		MongoDatabase: app.MongoDatabase,
	}
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrationURL returns the PostgreSQL URL understood by golang-migrate.
func (c *Config) MigrationURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}
