package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultSecretKey signs sessions when SECRET_KEY is unset
const DefaultSecretKey = "it's a secret"

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	SecretKey   string
	BcryptCost  int
	LogLevel    string
	DBMaxIdle   int
	DBMaxOpen   int
}

// Load reads the configuration from the environment, after loading a .env
// file when one exists. With ENV=test the database comes from
// TEST_DATABASE_URL so test runs never touch the regular database.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	env := getEnv("ENV", "development")
	dbURL := getEnv("DATABASE_URL", "postgresql:///warbler")
	if env == "test" {
		dbURL = getEnv("TEST_DATABASE_URL", "postgresql:///warbler-test")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         env,
		DatabaseURL: dbURL,
		SecretKey:   getEnv("SECRET_KEY", DefaultSecretKey),
		BcryptCost:  getEnvInt("BCRYPT_COST", 0),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		DBMaxIdle:   getEnvInt("DB_MAX_IDLE", 5),
		DBMaxOpen:   getEnvInt("DB_MAX_OPEN", 25),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("Invalid integer for %s: %q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
