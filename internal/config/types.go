package config

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	Turso     TursoConfig
	Slack     SlackConfig
	ProjectID string
	Rankings  RankingsConfig
	HTTP      HTTPConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
	// SigningSecret verifies slash command requests. Empty disables verification.
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type RankingsConfig struct {
	// TablesFile is the YAML file with the static tournament -> table lookup.
	TablesFile string
	// NameHeuristic enables resolving unregistered tournaments from their name and category.
	NameHeuristic bool
}

type HTTPConfig struct {
	AllowedOrigins []string
	// WriteRateLimit is the sustained number of write requests per second allowed per client IP.
	WriteRateLimit float64
	WriteBurst     int
}

// tablesFile is the on-disk layout of RankingsConfig.TablesFile.
type tablesFile struct {
	TournamentTables map[string]string `yaml:"tournament_tables"`
}
