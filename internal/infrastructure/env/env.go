package env

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"webtools/internal/application/port/output"
)

var _ output.ConfigPort = (*EnvService)(nil)

// Config keys.
const (
	KeyHeadless        = "WEBTOOLS_HEADLESS"
	KeyControlURL      = "WEBTOOLS_CONTROL_URL"
	KeyTimeout         = "WEBTOOLS_TIMEOUT"
	KeySettleDelay     = "WEBTOOLS_SETTLE_DELAY"
	KeySettleTimeout   = "WEBTOOLS_SETTLE_TIMEOUT"
	KeyStrict          = "WEBTOOLS_STRICT"
	KeyCaptureDir      = "WEBTOOLS_CAPTURE_DIR"
	KeyHTTPAddr        = "WEBTOOLS_HTTP_ADDR"
	KeyLogLevel        = "WEBTOOLS_LOG_LEVEL"
	KeyOpenRouterKey   = "OPENROUTER_API_KEY"
	KeyOpenRouterModel = "OPENROUTER_MODEL_NAME"
)

type EnvService struct{}

// NewEnvService loads .env and then .env.<APP_ENV> on top of it. Missing
// files are not an error. Diagnostics go to stderr through the log package
// so stdout stays clean for the stdio transport.
func NewEnvService() *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load %s: %v", envFile, err)
	}

	return &EnvService{}
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(key)
}

func (e *EnvService) MustGet(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("ENV %s is missing", key)
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	return val
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDuration accepts Go duration strings ("750ms", "3s"). A bare integer is
// read as milliseconds.
func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(val); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}
