package configs

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	Port       string

	AppAuthKey string
	AppEncKey  string

	// Blob store. When S3Bucket is empty the local-disk store is used.
	S3Region      string
	S3Bucket      string
	S3Prefix      string
	S3PublicURL   string
	LocalBlobDir  string
	LocalBlobBase string

	// Assist collaborator (image analysis + email drafting). Optional;
	// the deterministic fallback is used when the key is missing.
	AssistBaseURL string
	AssistAPIKey  string

	// Address that receives a copy of every interest inquiry.
	SupplierEmail string

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string

	APP_URL string
	APP_ENV string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:        os.Getenv("DB_HOST"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
		DBPort:        os.Getenv("DB_PORT"),
		Port:          os.Getenv("APP_PORT"),
		AppAuthKey:    os.Getenv("APP_AUTH_KEY"),
		AppEncKey:     os.Getenv("APP_ENC_KEY"),
		S3Region:      os.Getenv("S3_REGION"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Prefix:      os.Getenv("S3_PREFIX"),
		S3PublicURL:   os.Getenv("S3_PUBLIC_URL"),
		LocalBlobDir:  os.Getenv("LOCAL_BLOB_DIR"),
		LocalBlobBase: os.Getenv("LOCAL_BLOB_BASE_URL"),
		AssistBaseURL: os.Getenv("ASSIST_BASE_URL"),
		AssistAPIKey:  os.Getenv("ASSIST_API_KEY"),
		SupplierEmail: os.Getenv("SUPPLIER_EMAIL"),
		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     os.Getenv("EMAIL_PORT"),
		EmailUsername: os.Getenv("EMAIL_USERNAME"),
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     os.Getenv("EMAIL_USERNAME"),
		APP_URL:       os.Getenv("APP_URL"),
		APP_ENV:       os.Getenv("APP_ENV"),
	}

}

// ValidateRequired checks the configuration the app cannot start without.
// A missing required key is a fatal startup error, not something handlers
// recover from.
func (e ENV) ValidateRequired() error {
	required := map[string]string{
		"DB_HOST":      e.DBHost,
		"DB_USER":      e.DBUser,
		"DB_NAME":      e.DBName,
		"DB_PORT":      e.DBPort,
		"APP_PORT":     e.Port,
		"APP_AUTH_KEY": e.AppAuthKey,
		"APP_ENC_KEY":  e.AppEncKey,
	}
	for key, val := range required {
		if val == "" {
			return fmt.Errorf("required config %s is not set", key)
		}
	}
	return nil
}
