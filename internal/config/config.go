package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	cfg := Config{
		DBName: getEnv("DB_NAME"),
		Port:   getEnvDefault("PORT", "8080"),
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:         getEnvDefault("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvDefault("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvDefault("SLACK_SIGNING_SECRET", ""),
		},
		ProjectID: getEnvDefault("GCP_PROJECT", ""),
		Rankings: RankingsConfig{
			TablesFile:    getEnvDefault("TOURNAMENT_TABLES_FILE", "./config/tournament_tables.yaml"),
			NameHeuristic: getBool("TABLE_NAME_HEURISTIC", true),
		},
		HTTP: HTTPConfig{
			AllowedOrigins: splitList(getEnvDefault("CORS_ALLOWED_ORIGINS", "*")),
			WriteRateLimit: getFloat("WRITE_RATE_LIMIT", 5),
			WriteBurst:     getInt("WRITE_BURST", 10),
		},
	}
	if cfg.Turso.PrimaryURL != "" && cfg.Turso.AuthToken == "" {
		log.Fatalf("Error: TURSO_AUTH_TOKEN is required when TURSO_PRIMARY_URL is set.")
	}
	return cfg
}

// LoadTournamentTables reads the static tournament id -> leaderboard table
// lookup. A missing file yields a nil map and no error. A file without
// entries yields an empty map, which disables the static lookup.
func LoadTournamentTables(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn("Tournament tables file not found", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.LoadTournamentTables: %w", err)
	}
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config.LoadTournamentTables: parse %s: %w", path, err)
	}
	for id, table := range f.TournamentTables {
		if strings.TrimSpace(table) == "" {
			return nil, fmt.Errorf("config.LoadTournamentTables: tournament %s has an empty table name", id)
		}
	}
	if f.TournamentTables == nil {
		f.TournamentTables = map[string]string{}
	}
	log.Info("Loaded static tournament tables", "path", path, "count", len(f.TournamentTables))
	return f.TournamentTables, nil
}

func getEnvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnvDefault(key, strconv.FormatBool(fallback)))
	if err != nil {
		log.Warn("Invalid boolean, using default", "key", key, "default", fallback)
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(getEnvDefault(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnvDefault(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
