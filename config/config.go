package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret string

	ShopierAPIKey     string
	ShopierSecret     string
	ShopierPaymentURL string
	FrontendURL       string

	UploadDir  string
	ServerPort string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "videomaster"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),

		ShopierAPIKey:     getEnv("SHOPIER_API_KEY", ""),
		ShopierSecret:     getEnv("SHOPIER_SECRET", ""),
		ShopierPaymentURL: getEnv("SHOPIER_PAYMENT_URL", "https://www.shopier.com/ShowProduct/api_pay4.php"),
		FrontendURL:       getEnv("FRONTEND_URL", "https://videomaster.up.railway.app"),

		UploadDir:  getEnv("UPLOAD_DIR", "./uploads"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
