package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DatabaseURL string
	SslCertPath string

	// Object storage. StorageBackend picks the client for bare storage paths;
	// s3:// and gs:// paths always go to their own backend.
	StorageBackend string
	AwsAccessKey   string
	AwsSecretKey   string
	AwsRegion      string
	BucketName     string
	GCSBucketName  string

	// Google Drive / Sheets.
	GoogleAPIKey          string
	GoogleCredentialsFile string
	SheetID               string
	SheetRange            string
	DriveSniffMode        string

	// Generation model.
	LLMProvider     string
	AIAPIKey        string
	GenModel        string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	VertexProject   string
	VertexLocation  string
	VertexModel     string
	LLMMaxTokens    int

	RedisAddr    string
	RegenLockTTL time.Duration

	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration

	// GenerationTimeout bounds a shared lesson regeneration, which outlives
	// the request that started it.
	GenerationTimeout time.Duration
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	requestTimeout := getEnvDuration("REQUEST_TIMEOUT", 2*time.Minute)

	return &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "s3")),
		AwsAccessKey:   getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey:   getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:      getEnv("AWS_REGION", "us-east-2"),
		BucketName:     getEnv("BUCKET_NAME", "coursely-docs"),
		GCSBucketName:  getEnv("GCS_BUCKET_NAME", ""),

		GoogleAPIKey:          getEnv("GOOGLE_API_KEY", getEnv("GOOGLE_SHEETS_API_KEY", "")),
		GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		SheetID:               getEnv("GOOGLE_SHEETS_ID", ""),
		SheetRange:            getEnv("GOOGLE_SHEETS_RANGE", "Sheet1!A2:C"),
		DriveSniffMode:        strings.ToLower(getEnv("DRIVE_SNIFF_MODE", "metadata")),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "gemini")),
		AIAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GenModel:        getEnv("GEN_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),
		VertexProject:   getEnv("VERTEX_PROJECT", ""),
		VertexLocation:  getEnv("VERTEX_LOCATION", "us-central1"),
		VertexModel:     getEnv("VERTEX_MODEL", "gemini-2.0-flash"),
		LLMMaxTokens:    getEnvInt("LLM_MAX_TOKENS", 8192),

		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RegenLockTTL: getEnvDuration("REGEN_LOCK_TTL", 2*time.Minute),

		JWTSecret:      getEnv("JWT_SECRET", ""),
		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8888"}),
		RequestTimeout: requestTimeout,

		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", requestTimeout+30*time.Second),
	}
}

// Validate reports settings the service cannot start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL not set")
	}
	if c.GenerationTimeout <= 0 {
		return fmt.Errorf("GENERATION_TIMEOUT must be positive")
	}
	switch c.StorageBackend {
	case "s3", "gcs":
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	switch c.DriveSniffMode {
	case "metadata", "export-first":
	default:
		return fmt.Errorf("unknown DRIVE_SNIFF_MODE %q", c.DriveSniffMode)
	}
	switch c.LLMProvider {
	case "gemini":
		if c.AIAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "vertex":
		if c.VertexProject == "" {
			return fmt.Errorf("VERTEX_PROJECT is required for the vertex provider")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	return nil
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
