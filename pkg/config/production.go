package config

import (
	"os"
	"strconv"
)

func loadProductionConfig(cfg *Config) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err == nil {
		cfg.ServerPort = port
	}

	if dbPath := os.Getenv("DATABASE_FILE_PATH"); dbPath != "" {
		cfg.DatabaseFilePath = dbPath
	} else {
		cfg.DatabaseFilePath = "/data/hauskeep.sqlite"
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.AdminPassword = password
	}
	if cloudURL := os.Getenv("CLOUD_BASE_URL"); cloudURL != "" {
		cfg.CloudBaseURL = cloudURL
	}
}
