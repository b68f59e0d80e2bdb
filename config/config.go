package config

import "os"

type Config struct {
	AppPort string
	AppEnv  string

	MongoURI      string
	MongoDatabase string

	// JWTSecret enables Bearer-token identity resolution when set.
	// DefaultUserID is the subject used for requests without a token.
	JWTSecret     string
	DefaultUserID string

	LogLevel string
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		AppPort: get("APP_PORT", "3000"),
		AppEnv:  get("APP_ENV", "dev"),

		MongoURI:      get("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: get("MONGODB_DATABASE", "attendance_manager"),

		JWTSecret:     get("JWT_SECRET", ""),
		DefaultUserID: get("DEFAULT_USER_ID", "user123"),

		LogLevel: get("LOG_LEVEL", "info"),
	}
}
