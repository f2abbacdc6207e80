package config

import "os"

var DebugMode = os.Getenv("DEBUG_MODE") == "true"

// Config carries the environment-provided settings for the bridge.
// Load a .env file with godotenv before calling FromEnv when running
// outside a managed environment.
type Config struct {
	APIKey    string
	APISecret string
	Sandbox   bool
}

func FromEnv() *Config {
	return &Config{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		APISecret: os.Getenv("GEMINI_API_SECRET"),
		Sandbox:   os.Getenv("GEMINI_SANDBOX") == "true",
	}
}
