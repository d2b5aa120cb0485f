package config

import "os"

type Config struct {
	MongoURI    string
	MongoDB     string
	ServerPort  string
	NatsURL     string
	CORSOrigins string
}

func Load() *Config {
	return &Config{
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "quizroom"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		NatsURL:     getEnv("NATS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
