// 환경변수 기반 설정 로딩
//
// .env 파일은 main에서 godotenv로 로드합니다.
// 모든 설정은 명시적인 타입 필드로만 구성합니다 (임의 키 주입 금지).

package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig
	Gemini   GeminiConfig
	Postgres PostgresConfig
	Storage  StorageConfig
	Alert    AlertConfig
	Slack    SlackConfig
	Auth     AuthConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type GeminiConfig struct {
	APIKey              string
	Model               string
	EmbeddingModel      string
	Temperature         float64
	ConfidenceThreshold int
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type StorageConfig struct {
	EvidenceDir        string
	MaxEvidenceAgeDays int
}

// AlertConfig - 알림 채널 설정
//
// 채널별 기능 플래그가 꺼져 있거나 필수 값이 비어 있으면
// 해당 채널은 경고 로그만 남기고 no-op으로 동작합니다.
type AlertConfig struct {
	EnableEmailAlerts bool
	EnableSMSAlerts   bool
	EnableIoTActions  bool

	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	AlertEmail   string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioPhone      string
	AlertPhone       string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type AuthConfig struct {
	JWTSecret            string
	OperatorID           string
	OperatorPasswordHash string
	AccessTTLMinutes     int
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Host: getenv("API_HOST", "0.0.0.0"),
			Port: getenv("API_PORT", "8000"),
		},
		Gemini: GeminiConfig{
			APIKey:              os.Getenv("GEMINI_API_KEY"),
			Model:               getenv("GEMINI_MODEL", "gemini-2.0-flash"),
			EmbeddingModel:      getenv("GEMINI_EMBEDDING_MODEL", "text-embedding-004"),
			Temperature:         getenvFloat("TEMPERATURE", 0.4),
			ConfidenceThreshold: getenvInt("CONFIDENCE_THRESHOLD", 70),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Storage: StorageConfig{
			EvidenceDir:        getenv("EVIDENCE_DIR", "evidence"),
			MaxEvidenceAgeDays: getenvInt("MAX_EVIDENCE_AGE_DAYS", 30),
		},
		Alert: AlertConfig{
			EnableEmailAlerts: getenvBool("ENABLE_EMAIL_ALERTS", false),
			EnableSMSAlerts:   getenvBool("ENABLE_SMS_ALERTS", false),
			EnableIoTActions:  getenvBool("ENABLE_IOT_ACTIONS", false),
			SMTPHost:          os.Getenv("SMTP_HOST"),
			SMTPPort:          getenv("SMTP_PORT", "587"),
			SMTPUser:          os.Getenv("SMTP_USER"),
			SMTPPassword:      os.Getenv("SMTP_PASSWORD"),
			AlertEmail:        os.Getenv("ALERT_EMAIL"),
			TwilioAccountSID:  os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:   os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioPhone:       os.Getenv("TWILIO_PHONE"),
			AlertPhone:        os.Getenv("ALERT_PHONE"),
		},
		Slack: SlackConfig{
			BotToken:  os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Auth: AuthConfig{
			JWTSecret:            os.Getenv("JWT_SECRET"),
			OperatorID:           getenv("OPERATOR_ID", "operator"),
			OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
			AccessTTLMinutes:     getenvInt("ACCESS_TOKEN_TTL_MINUTES", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				getenv("CORS_ORIGIN", "http://localhost:3000"),
				"http://localhost:5173",
			},
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
