package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Document store selection: "firestore", "mongo" or "memory".
	StoreDriver  string `mapstructure:"STORE_DRIVER"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Identity provider selection: "firebase" or "local".
	IdentityDriver string        `mapstructure:"IDENTITY_DRIVER"`
	JWTSecret      string        `mapstructure:"JWT_SECRET"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL"`

	// Firebase project.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseAPIKey          string `mapstructure:"FIREBASE_API_KEY"`
	FirebaseBucket          string `mapstructure:"FIREBASE_BUCKET"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// RabbitMQ domain events; empty disables publishing.
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	// Keep itinerary items after they are bundled into a booking.
	RetainSourceItems bool `mapstructure:"ITINERARY_RETAIN_SOURCE_ITEMS"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	viper.SetDefault("STORE_DRIVER", "firestore")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "arone")
	viper.SetDefault("IDENTITY_DRIVER", "firebase")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("SESSION_TTL", 24*time.Hour)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	viper.SetDefault("FIREBASE_PROJECT_ID", "")
	viper.SetDefault("FIREBASE_API_KEY", "")
	viper.SetDefault("FIREBASE_BUCKET", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("ITINERARY_RETAIN_SOURCE_ITEMS", true)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
