package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

type DbDialect string

const (
	DbDriverMySQL    DbDialect = "mysql"
	DbDriverBolt     DbDialect = "bolt"
	DbDriverPostgres DbDialect = "postgres"
	DbDriverSQLite   DbDialect = "sqlite"
)

func (d DbDialect) IsValid() bool {
	switch d {
	case DbDriverMySQL, DbDriverBolt, DbDriverPostgres, DbDriverSQLite:
		return true
	default:
		return false
	}
}

type DbConfig struct {
	Dialect DbDialect `json:"dialect,omitempty"`

	Hostname string            `json:"host,omitempty"`
	Username string            `json:"user,omitempty"`
	Password string            `json:"pass,omitempty"`
	DbName   string            `json:"name,omitempty"`
	Options  map[string]string `json:"options,omitempty"`

	// Path is the database file for sqlite and bolt.
	Path string `json:"path,omitempty"`
}

// GetConnectionString builds the DSN handed to database/sql.Open.
func (d *DbConfig) GetConnectionString(includeDbName bool) (connectionString string, err error) {
	dbName := ""
	if includeDbName {
		dbName = d.DbName
	}

	switch d.Dialect {
	case DbDriverBolt:
		connectionString = d.Path
	case DbDriverSQLite:
		connectionString = d.Path
		if connectionString == "" {
			connectionString = "trailfeathers.sqlite"
		}
	case DbDriverMySQL:
		connectionString = fmt.Sprintf(
			"%s:%s@tcp(%s)/%s",
			d.Username,
			d.Password,
			d.Hostname,
			dbName)
		options := map[string]string{
			"parseTime":         "true",
			"interpolateParams": "true",
		}
		for k, v := range d.Options {
			options[k] = v
		}
		q := url.Values{}
		for k, v := range options {
			q.Set(k, v)
		}
		connectionString += "?" + q.Encode()
	case DbDriverPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.Username, d.Password),
			Host:   d.Hostname,
			Path:   "/" + dbName,
		}
		q := u.Query()
		for k, v := range d.Options {
			q.Set(k, v)
		}
		if q.Get("sslmode") == "" {
			q.Set("sslmode", "disable")
		}
		u.RawQuery = q.Encode()
		connectionString = u.String()
	default:
		err = fmt.Errorf("unsupported database dialect %q", d.Dialect)
	}

	return
}

type RedisConfig struct {
	Addr          string `json:"addr,omitempty"`
	DB            int    `json:"db,omitempty"`
	Pass          string `json:"pass,omitempty"`
	User          string `json:"user,omitempty"`
	TLS           bool   `json:"tls,omitempty"`
	TLSSkipVerify bool   `json:"tls_skip_verify,omitempty"`
}

type ConfigType struct {
	Database DbConfig `json:"database"`

	Port string `json:"port,omitempty"`

	// Cookie keys are base64 encoded. Random keys are generated when empty,
	// which logs everybody out on restart.
	CookieHash       string   `json:"cookie_hash,omitempty"`
	CookieEncryption string   `json:"cookie_encryption,omitempty"`
	CorsOrigins      []string `json:"cors_origins,omitempty"`

	// Redis enables the shared list cache. The in-process cache is used when nil.
	Redis *RedisConfig `json:"redis,omitempty"`

	CacheTTLSeconds int `json:"cache_ttl_seconds,omitempty"`

	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`
	LogFile   string `json:"log_file,omitempty"`
}

// Config is the configuration loaded by the command line entry points.
var Config *ConfigType

func defaultConfig() *ConfigType {
	return &ConfigType{
		Database: DbConfig{
			Dialect: DbDriverSQLite,
			Path:    "trailfeathers.sqlite",
		},
		Port:            ":5000",
		CorsOrigins:     []string{"http://localhost:5500", "http://127.0.0.1:5500"},
		CacheTTLSeconds: 60,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// LoadConfig reads the optional JSON file at path and applies TRAILFEATHERS_*
// environment overrides on top of it.
func LoadConfig(path string) (*ConfigType, error) {
	conf := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
		if err = json.Unmarshal(data, conf); err != nil {
			return nil, fmt.Errorf("cannot parse config file: %w", err)
		}
	}

	if err := conf.loadEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

type envLookup func(key string) (string, bool)

func (conf *ConfigType) loadEnv(lookup envLookup) error {
	strVars := map[string]*string{
		"TRAILFEATHERS_DB_HOST":           &conf.Database.Hostname,
		"TRAILFEATHERS_DB_USER":           &conf.Database.Username,
		"TRAILFEATHERS_DB_PASS":           &conf.Database.Password,
		"TRAILFEATHERS_DB_NAME":           &conf.Database.DbName,
		"TRAILFEATHERS_DB_PATH":           &conf.Database.Path,
		"TRAILFEATHERS_PORT":              &conf.Port,
		"TRAILFEATHERS_COOKIE_HASH":       &conf.CookieHash,
		"TRAILFEATHERS_COOKIE_ENCRYPTION": &conf.CookieEncryption,
		"TRAILFEATHERS_LOG_LEVEL":         &conf.LogLevel,
		"TRAILFEATHERS_LOG_FORMAT":        &conf.LogFormat,
		"TRAILFEATHERS_LOG_FILE":          &conf.LogFile,
	}

	for key, target := range strVars {
		if v, ok := lookup(key); ok {
			*target = v
		}
	}

	if v, ok := lookup("TRAILFEATHERS_DB_DIALECT"); ok {
		conf.Database.Dialect = DbDialect(v)
	}

	if v, ok := lookup("TRAILFEATHERS_CORS_ORIGINS"); ok {
		conf.CorsOrigins = nil
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				conf.CorsOrigins = append(conf.CorsOrigins, origin)
			}
		}
	}

	if v, ok := lookup("TRAILFEATHERS_CACHE_TTL"); ok {
		ttl, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRAILFEATHERS_CACHE_TTL: %w", err)
		}
		conf.CacheTTLSeconds = ttl
	}

	if v, ok := lookup("TRAILFEATHERS_REDIS_ADDR"); ok && v != "" {
		if conf.Redis == nil {
			conf.Redis = &RedisConfig{}
		}
		conf.Redis.Addr = v
		if pass, ok := lookup("TRAILFEATHERS_REDIS_PASS"); ok {
			conf.Redis.Pass = pass
		}
	}

	return nil
}

func (conf *ConfigType) Validate() error {
	if !conf.Database.Dialect.IsValid() {
		return fmt.Errorf("unsupported database dialect %q", conf.Database.Dialect)
	}

	if conf.Database.Dialect == DbDriverBolt && conf.Database.Path == "" {
		return errors.New("bolt database requires a path")
	}

	if conf.CacheTTLSeconds < 0 {
		return errors.New("cache_ttl_seconds can not be negative")
	}

	return nil
}
