package config

import "os"

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	return port
}

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// SqlitePath points the development session store at its database
// file. Empty means sessions live in postgres.
func SqlitePath() string {
	return os.Getenv("SQLITE_PATH")
}
