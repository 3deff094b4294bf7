package config

import "time"

// Config is the root configuration of the kepler binary.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Journal  JournalConfig  `yaml:"journal"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"HOST"                    env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	BodyLimit       int           `yaml:"body_limit"       env:"SERVER_BODY_LIMIT"       env-default:"8388608"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"DB_PATH" env-default:"data/kepler.db"`
}

// AuthConfig controls the local identity provider. When Required is off the
// log endpoints serve one shared journal without a token.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"          env:"SECRET_KEY"`
	TokenTTL          time.Duration `yaml:"token_ttl"           env:"AUTH_TOKEN_TTL"           env-default:"720h"`
	Required          bool          `yaml:"required"            env:"AUTH_REQUIRED"            env-default:"false"`
	LoginAttempts     int           `yaml:"login_attempts"      env:"AUTH_LOGIN_ATTEMPTS"      env-default:"8"`
	LoginAttemptsSpan time.Duration `yaml:"login_attempts_span" env:"AUTH_LOGIN_ATTEMPTS_SPAN" env-default:"15m"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// JournalConfig is read by the client-side commands (log, trends, route, export).
type JournalConfig struct {
	Timezone  string        `yaml:"timezone"   env:"TZ"              env-default:"UTC"`
	RemoteURL string        `yaml:"remote_url" env:"KEPLER_URL"      env-default:"http://127.0.0.1:8080"`
	Token     string        `yaml:"token"      env:"KEPLER_TOKEN"`
	Timeout   time.Duration `yaml:"timeout"    env:"KEPLER_TIMEOUT"  env-default:"10s"`
	Language  string        `yaml:"language"   env:"KEPLER_LANGUAGE" env-default:"en"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedMethods string `yaml:"allowed_methods" env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"Authorization,Content-Type"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"86400"`
}

// Location resolves Journal.Timezone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	location, err := time.LoadLocation(c.Journal.Timezone)
	if err != nil {
		return time.UTC
	}
	return location
}
