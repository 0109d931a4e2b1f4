package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    int
	LogLevel      string
	SessionSecret string
	SecureCookies bool

	// Timezone is the store-local zone used for shift dates and clock times.
	Timezone string

	// ClockInFloor is the earliest clock-in time recorded for employees
	// without early access, formatted as HH:MM:SS.
	ClockInFloor string

	Sheets  SheetsConfig
	Storage StorageConfig
	MQ      MQConfig
}

type SheetsConfig struct {
	SpreadsheetID   string
	CredentialsJSON string
	CredentialsFile string

	EmployeesTable      string
	WorkHoursTable      string
	PayrollReportsTable string
	OnboardingTable     string
}

// StorageConfig selects the object storage backend for payroll archives.
// An empty Backend disables archiving.
type StorageConfig struct {
	Backend string
	GCS     GCSConfig
	Minio   MinioConfig
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MQConfig selects the broker for domain events. An empty Backend drops events.
type MQConfig struct {
	Backend  string
	PubSub   PubSubConfig
	RabbitMQ RabbitMQConfig
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

func LoadConfig() Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	credentialsFile := getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")

	sheetsConfig := SheetsConfig{
		SpreadsheetID:       getEnv("SPREADSHEET_ID", ""),
		CredentialsJSON:     getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		CredentialsFile:     credentialsFile,
		EmployeesTable:      getEnv("SHEET_EMPLOYEES", "Employees"),
		WorkHoursTable:      getEnv("SHEET_WORK_HOURS", "WorkHours"),
		PayrollReportsTable: getEnv("SHEET_PAYROLL_REPORTS", "PayrollReports"),
		OnboardingTable:     getEnv("SHEET_ONBOARDING", "Onboarding"),
	}

	storageConfig := StorageConfig{
		Backend: strings.ToLower(getEnv("STORAGE_BACKEND", "")),
		GCS: GCSConfig{
			Bucket:          getEnv("GCS_BUCKET", ""),
			ProjectID:       getEnv("GCS_PROJECT_ID", ""),
			CredentialsFile: credentialsFile,
		},
		Minio: MinioConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "crewclock"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}

	mqConfig := MQConfig{
		Backend: strings.ToLower(getEnv("MQ_BACKEND", "")),
		PubSub: PubSubConfig{
			ProjectID:          getEnv("PUBSUB_PROJECT_ID", ""),
			CredentialsFile:    credentialsFile,
			SubscriptionSuffix: getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:             getEnv("RABBITMQ_URL", ""),
			QueueDurable:    getEnvBool("RABBITMQ_QUEUE_DURABLE", true),
			QueueAutoDelete: getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", false),
			PrefetchCount:   getEnvInt("RABBITMQ_PREFETCH", 10),
		},
	}

	return Config{
		ServerPort:    getEnvInt("SERVER_PORT", 8080),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SessionSecret: getEnv("SESSION_SECRET", ""),
		SecureCookies: getEnvBool("SECURE_COOKIES", os.Getenv("ENV") != "dev"),
		Timezone:      getEnv("TIMEZONE", "Europe/London"),
		ClockInFloor:  getEnv("CLOCK_IN_FLOOR", "08:00:00"),
		Sheets:        sheetsConfig,
		Storage:       storageConfig,
		MQ:            mqConfig,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		var value int
		fmt.Sscanf(valueStr, "%d", &value)
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(valueStr)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return defaultValue
	}
}
