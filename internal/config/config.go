package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	DatabaseURL string

	ReasoningAPIKey  string
	ReasoningBaseURL string
	ReasoningModel   string
	ReasoningTimeout time.Duration

	PatternLibraryPath string
	AssessmentPath     string

	ModelServiceURL string
	ModelTimeout    time.Duration

	AvgWaitMinutes  int
	SeriousDiseases []string
	ClinicOffDays   []int
	ClinicHolidays  []string

	NoShowGrace     time.Duration
	NoShowInterval  time.Duration
	NoShowBatchSize int

	RateLimitPerMinute int
	RateLimitBurst     int
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:        port,
		DatabaseURL: os.Getenv("DB_DSN"),

		ReasoningAPIKey:  os.Getenv("REASONING_API_KEY"),
		ReasoningBaseURL: os.Getenv("REASONING_BASE_URL"),
		ReasoningModel:   os.Getenv("REASONING_MODEL"),
		ReasoningTimeout: readDurationSeconds("REASONING_TIMEOUT_SECONDS", 30),

		PatternLibraryPath: os.Getenv("PATTERN_LIBRARY_PATH"),
		AssessmentPath:     os.Getenv("ASSESSMENT_PATH"),

		ModelServiceURL: os.Getenv("MODEL_SERVICE_URL"),
		ModelTimeout:    readDurationSeconds("MODEL_TIMEOUT_SECONDS", 15),

		AvgWaitMinutes:  readInt("AVG_WAIT_MINUTES", 15),
		SeriousDiseases: readList("SERIOUS_DISEASES"),
		ClinicOffDays:   readIntList("CLINIC_OFF_DAYS"),
		ClinicHolidays:  readList("CLINIC_HOLIDAYS"),

		NoShowGrace:     readDurationSeconds("NO_SHOW_GRACE_SECONDS", 900),
		NoShowInterval:  readDurationSeconds("NO_SHOW_SCAN_INTERVAL_SECONDS", 60),
		NoShowBatchSize: readInt("NO_SHOW_BATCH_SIZE", 100),

		RateLimitPerMinute: readInt("RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:     readInt("RATE_LIMIT_BURST", 30),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	value := readInt(key, fallback)
	if value <= 0 {
		return 0
	}
	return time.Duration(value) * time.Second
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}
	return values
}

func readIntList(key string) []int {
	var values []int
	for _, part := range readList(key) {
		value, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		values = append(values, value)
	}
	return values
}
