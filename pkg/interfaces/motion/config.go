package motion

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// MotionConfig holds everything needed to talk to the robot's motion gateway,
// the JSON-over-HTTP service that owns the drive base, speaker, and sensors.
type MotionConfig struct {
	// API Authentication
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
	BearerToken       string

	// API Endpoints
	BaseURL        string
	MoveEndpoint   string
	SpeechEndpoint string
	HaltEndpoint   string
	StatusEndpoint string

	// Rate Limiting
	RateLimit     int // commands per window
	RateWindow    int // window length in seconds
	RetryAttempts int

	// General Config
	Logger *logrus.Logger
}

// NewMotionConfig builds a MotionConfig from environment variables.
func NewMotionConfig() (*MotionConfig, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	rateLimit, _ := strconv.Atoi(getEnvOrDefault("MOTION_RATE_LIMIT", "60"))
	rateWindow, _ := strconv.Atoi(getEnvOrDefault("MOTION_RATE_WINDOW", "60"))
	retryAttempts, _ := strconv.Atoi(getEnvOrDefault("MOTION_RETRY_ATTEMPTS", "3"))

	config := &MotionConfig{
		// API Authentication
		ConsumerKey:       os.Getenv("MOTION_CONSUMER_KEY"),
		ConsumerSecret:    os.Getenv("MOTION_CONSUMER_SECRET"),
		AccessToken:       os.Getenv("MOTION_ACCESS_TOKEN"),
		AccessTokenSecret: os.Getenv("MOTION_ACCESS_TOKEN_SECRET"),
		BearerToken:       os.Getenv("MOTION_BEARER_TOKEN"),

		// API Endpoints
		BaseURL:        getEnvOrDefault("MOTION_GATEWAY_URL", "http://localhost:8710/v1"),
		MoveEndpoint:   "/commands/move",
		SpeechEndpoint: "/commands/speech",
		HaltEndpoint:   "/commands/halt",
		StatusEndpoint: "/status",

		// Rate Limiting
		RateLimit:     rateLimit,
		RateWindow:    rateWindow,
		RetryAttempts: retryAttempts,

		Logger: logrus.New(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and applies defaults for optional ones.
func (c *MotionConfig) Validate() error {
	hasOAuth := c.ConsumerKey != "" && c.ConsumerSecret != "" &&
		c.AccessToken != "" && c.AccessTokenSecret != ""
	if !hasOAuth && c.BearerToken == "" {
		return fmt.Errorf("either OAuth 1.0a credentials or a bearer token must be provided")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("gateway base URL is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if c.MoveEndpoint == "" {
		c.MoveEndpoint = "/commands/move"
	}
	if c.SpeechEndpoint == "" {
		c.SpeechEndpoint = "/commands/speech"
	}
	if c.HaltEndpoint == "" {
		c.HaltEndpoint = "/commands/halt"
	}
	if c.StatusEndpoint == "" {
		c.StatusEndpoint = "/status"
	}
	if c.RateLimit <= 0 {
		c.RateLimit = 60
	}
	if c.RateWindow <= 0 {
		c.RateWindow = 60
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 3
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
