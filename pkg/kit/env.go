package kit

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// LoadEnvFile loads a .env file when one exists. Missing files are normal
// outside local development.
func LoadEnvFile(log *zap.Logger) {
	if err := godotenv.Load(); err != nil {
		if log != nil {
			log.Debug("no .env file, using process environment")
		}
	}
}

func Getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
