package config

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Locale:    "en-US",
		Format:    "humanize",
		Formatter: "humanize",
		Leaderboard: LeaderboardConfig{
			// first five dimensions, seven values each: what a leaderboard shows
			Dimensions: 5,
			Values:     7,
		},
		Width: WidthConfig{
			Mode:   WidthMonospace,
			CellPx: 1,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
