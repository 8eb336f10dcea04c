package mongo

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConfParamMissing = fmt.Errorf("configuration parameter missing")

const (
	defaultPort   = "27017"
	defaultDBName = "scraper"
)

type Config struct {
	Host     string
	Port     string
	DBName   string
	User     string
	Password string
}

// ConfigFromEnv reads the connection settings from MONGO_* variables.
// Port and database name fall back to the service defaults.
func ConfigFromEnv() Config {
	conf := Config{
		Host:     os.Getenv("MONGO_HOST"),
		Port:     os.Getenv("MONGO_PORT"),
		DBName:   os.Getenv("MONGO_DB_NAME"),
		User:     os.Getenv("MONGO_USER"),
		Password: os.Getenv("MONGO_PASS"),
	}
	if conf.Port == "" {
		conf.Port = defaultPort
	}
	if conf.DBName == "" {
		conf.DBName = defaultDBName
	}

	return conf
}

// Validate reports the first setting that keeps the counter from connecting.
// Credentials are optional but go together.
func (c *Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("%w: MONGO_HOST", ErrConfParamMissing)
	case c.User != "" && c.Password == "":
		return fmt.Errorf("%w: MONGO_PASS", ErrConfParamMissing)
	case c.User == "" && c.Password != "":
		return fmt.Errorf("%w: MONGO_USER", ErrConfParamMissing)
	}
	return nil
}

// URI returns the connection string with credentials escaped.
func (c *Config) URI() string {
	u := url.URL{
		Scheme: "mongodb",
		Host:   net.JoinHostPort(c.Host, c.Port),
		Path:   "/",
	}
	if c.User != "" {
		u.User = url.UserPassword(c.User, c.Password)
	}
	return u.String()
}

func (c *Config) Options() *options.ClientOptions {
	return options.Client().ApplyURI(c.URI())
}

func (c Config) String() string {
	c.Password = strings.Repeat("*", len([]rune(c.Password)))

	return fmt.Sprintf("%#v", c)
}
