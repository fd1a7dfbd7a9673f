package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Market   MarketConfig
	Feed     FeedConfig
	Assist   AssistantConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Driver string
	DSN    string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicActivity string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	PrometheusPort string
}

// MarketConfig holds the business knobs the storefront used to hardcode:
// the cash-to-token exchange rate, the markup a brand applies when it
// instantiates a community design as a product, and the checkout
// oversell policy.
type MarketConfig struct {
	TokensPerCash     int64
	DesignMarkup      float64
	DesignStock       int64
	AllowOversell     bool
	WelcomeCash       int64
	DailyRewardTokens int64
}

type FeedConfig struct {
	PollSeconds         int
	RecentOrdersLimit   int
	GlobalCommentsLimit int
}

type AssistantConfig struct {
	URL        string
	MaxRetries int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	tokensPerCash, _ := strconv.ParseInt(getEnv("EXCHANGE_RATE_TOKENS_PER_CASH", "10"), 10, 64)
	designMarkup, _ := strconv.ParseFloat(getEnv("DESIGN_PRICE_MARKUP", "1.2"), 64)
	designStock, _ := strconv.ParseInt(getEnv("DESIGN_PRODUCT_STOCK", "50"), 10, 64)
	welcomeCash, _ := strconv.ParseInt(getEnv("WELCOME_CASH", "5000"), 10, 64)
	dailyReward, _ := strconv.ParseInt(getEnv("DAILY_REWARD_TOKENS", "50"), 10, 64)
	pollSeconds, _ := strconv.Atoi(getEnv("FEED_POLL_SECONDS", "3"))
	recentOrders, _ := strconv.Atoi(getEnv("RECENT_ORDERS_LIMIT", "20"))
	globalComments, _ := strconv.Atoi(getEnv("GLOBAL_COMMENTS_LIMIT", "50"))
	assistRetries, _ := strconv.Atoi(getEnv("ASSISTANT_MAX_RETRIES", "3"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite3"),
			DSN:    getEnv("DB_DSN", ":memory:"),
		},
		Redis: RedisConfig{
			Enabled:  getEnv("REDIS_ENABLED", "false") == "true",
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Enabled:       getEnv("KAFKA_ENABLED", "false") == "true",
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicActivity: getEnv("KAFKA_TOPIC_ACTIVITY", "marketplace-activity"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "auraverse-feed-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			PrometheusPort: getEnv("PROMETHEUS_PORT", "9090"),
		},
		Market: MarketConfig{
			TokensPerCash:     tokensPerCash,
			DesignMarkup:      designMarkup,
			DesignStock:       designStock,
			AllowOversell:     getEnv("CHECKOUT_ALLOW_OVERSELL", "false") == "true",
			WelcomeCash:       welcomeCash,
			DailyRewardTokens: dailyReward,
		},
		Feed: FeedConfig{
			PollSeconds:         pollSeconds,
			RecentOrdersLimit:   recentOrders,
			GlobalCommentsLimit: globalComments,
		},
		Assist: AssistantConfig{
			URL:        getEnv("ASSISTANT_URL", ""),
			MaxRetries: assistRetries,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, db=%s", cfg.Server.Env, cfg.Server.Port, cfg.Database.Driver)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
