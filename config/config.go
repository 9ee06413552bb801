package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	TesseractDataPath string
	OCRLanguages      []string
	MaxFileSize       int64
	MaxFeeItems       int
	BatchConcurrency  int
	MinPDFTextChars   int
	EnableQR          bool
	LogLevel          string
}

// LoadConfig reads the environment, after loading a .env file when one is
// present.
func LoadConfig() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		TesseractDataPath: getEnv("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/4.00/tessdata"),
		OCRLanguages:      splitLanguages(getEnv("OCR_LANGUAGES", "tha+eng")),
		MaxFileSize:       int64(getEnvAsInt("MAX_FILE_SIZE_MB", 10)) * 1024 * 1024,
		MaxFeeItems:       getEnvAsInt("MAX_FEE_ITEMS", 0),
		BatchConcurrency:  max(1, getEnvAsInt("BATCH_CONCURRENCY", 4)),
		MinPDFTextChars:   getEnvAsInt("MIN_PDF_TEXT_CHARS", 40),
		EnableQR:          getEnvAsBool("ENABLE_QR", true),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// splitLanguages accepts Tesseract's "tha+eng" form as well as commas.
func splitLanguages(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' || r == ' ' })
}
