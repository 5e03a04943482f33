package config

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	DB struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret    string `mapstructure:"jwt_secret"`
		BcryptCost   int    `mapstructure:"bcrypt_cost"`
		CookieSecure bool   `mapstructure:"cookie_secure"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
		Folder    string `mapstructure:"folder"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

var envBindings = map[string]string{
	"app.port":              "APP_PORT",
	"app.env":               "APP_ENV",
	"mongo.uri":             "MONGO_URI",
	"mongo.database":        "MONGO_DATABASE",
	"db.driver":             "DB_DRIVER",
	"db.dsn":                "DB_DSN",
	"redis.addr":            "REDIS_ADDR",
	"redis.password":        "REDIS_PASSWORD",
	"redis.cache_ttl":       "REDIS_CACHE_TTL",
	"kafka.brokers":         "KAFKA_BROKERS",
	"auth.jwt_secret":       "JWT_SECRET",
	"auth.bcrypt_cost":      "BCRYPT_COST",
	"auth.cookie_secure":    "COOKIE_SECURE",
	"cloudinary.cloud_name": "CLOUDINARY_CLOUD_NAME",
	"cloudinary.api_key":    "CLOUDINARY_API_KEY",
	"cloudinary.api_secret": "CLOUDINARY_API_SECRET",
	"cloudinary.folder":     "CLOUDINARY_FOLDER",
	"jaeger.otlp_endpoint":  "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// LoadConfig reads config.yaml from path (when present), then .env and
// the process environment, which take precedence.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use environment.")
	}

	v.SetDefault("app.port", "8000")
	v.SetDefault("app.env", "development")
	v.SetDefault("mongo.database", "talent")
	v.SetDefault("db.driver", DriverMongo)
	v.SetDefault("redis.cache_ttl", 10*time.Minute)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("cloudinary.folder", "talent-identity")

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read environment only. Error: %v", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return cfg, err
		}
	}

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	switch c.DB.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("mongo.uri is required for the mongo driver")
		}
	case DriverPostgres:
		if c.DB.DSN == "" {
			return errors.New("db.dsn is required for the postgres driver")
		}
	default:
		return errors.New("db.driver must be 'mongo' or 'postgres'")
	}
	return nil
}
