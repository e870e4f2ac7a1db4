package main

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"job-consolidator/internal/models"
)

// loadEnv reads .env when present and fills defaults for everything unset.
func loadEnv() models.EnvParams {
	_ = godotenv.Load()

	p := models.EnvParams{
		DataDir:      os.Getenv("LEGACY_DATA_DIR"),
		DbPath:       os.Getenv("UNIFIED_DB_PATH"),
		SchemaPath:   os.Getenv("SCHEMA_PATH"),
		ReportPath:   os.Getenv("REPORT_PATH"),
		RunStorePath: os.Getenv("RUNSTORE_PATH"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		ApiPort:      os.Getenv("API_PORT"),
		JWTToken:     os.Getenv("JWT_TOKEN"),
		CertFilePath: os.Getenv("CERT_FILE_PATH"),
		KeyFilePath:  os.Getenv("KEY_FILE_PATH"),
	}
	if p.DataDir == "" {
		p.DataDir = models.DefaultDataDir
	}
	if p.DbPath == "" {
		p.DbPath = models.DefaultDBPath
	}
	if p.ApiPort == "" {
		p.ApiPort = models.DefaultApiPort
	}
	if v := os.Getenv("STAGED_BUILD"); v != "" {
		staged, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Ignoring invalid STAGED_BUILD %q", v)
		}
		p.StagedBuild = staged
	}
	if p.CertFilePath != "" || p.KeyFilePath != "" {
		_, certErr := os.Stat(p.CertFilePath)
		_, keyErr := os.Stat(p.KeyFilePath)
		if certErr != nil || keyErr != nil {
			log.Println("Key or cert file missing, serving plain HTTP")
			p.CertFilePath, p.KeyFilePath = "", ""
		}
	}
	return p
}

// runStorePath keeps the run history next to the database being built
// unless RUNSTORE_PATH names a file.
func runStorePath(explicit, dbPath string) string {
	if explicit != "" {
		return explicit
	}
	return filepath.Join(filepath.Dir(dbPath), models.RunStoreFile)
}
