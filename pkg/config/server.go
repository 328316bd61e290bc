package config

type ServerConfig struct {
	Port        int
	Environment string
	LogLevel    string
	CORSOrigins []string
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvInt("SERVER_PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		// The dashboard dev server runs on 5173.
		CORSOrigins: getEnvStringSlice("CORS_ORIGINS", []string{"http://localhost:5173"}),
	}
}
