package application

import (
	"errors"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	readings "condmon-cloud/internal/readings/domain"
)

// Config controls the working-set load: cache interval, band association
// join keys and the source table names.
type Config struct {
	RefreshInterval time.Duration
	JoinKeys        []readings.JoinKey
	ReadingsTable   string
	BandsTable      string
}

type fileConfig struct {
	RefreshInterval string   `yaml:"refresh_interval"`
	BandJoinKeys    []string `yaml:"band_join_keys"`
	ReadingsTable   string   `yaml:"readings_table"`
	BandsTable      string   `yaml:"bands_table"`
}

// LoadConfig loads config from env defaults, optionally overlaid by a YAML
// file named by CONDMON_CONFIG.
func LoadConfig() (Config, error) {
	raw := fileConfig{
		RefreshInterval: getenvDefault("CONDMON_REFRESH_INTERVAL", "10m"),
		BandJoinKeys:    splitCSV(getenvDefault("CONDMON_BAND_JOIN_KEYS", "alarm_standard,key")),
		ReadingsTable:   getenvDefault("CONDMON_READINGS_TABLE", "data"),
		BandsTable:      getenvDefault("CONDMON_BANDS_TABLE", "alarm"),
	}

	if path := os.Getenv("CONDMON_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, err
		}
	}

	return parseConfig(raw)
}

func parseConfig(raw fileConfig) (Config, error) {
	interval, err := time.ParseDuration(raw.RefreshInterval)
	if err != nil {
		return Config{}, errors.New("readings config: invalid refresh_interval " + raw.RefreshInterval)
	}
	if interval <= 0 {
		return Config{}, errors.New("readings config: refresh_interval must be positive")
	}

	keys := make([]readings.JoinKey, 0, len(raw.BandJoinKeys))
	for _, key := range raw.BandJoinKeys {
		keys = append(keys, readings.JoinKey(strings.TrimSpace(key)))
	}
	if err := readings.ValidateJoinKeys(keys); err != nil {
		return Config{}, err
	}

	if raw.ReadingsTable == "" || raw.BandsTable == "" {
		return Config{}, errors.New("readings config: empty table name")
	}

	return Config{
		RefreshInterval: interval,
		JoinKeys:        keys,
		ReadingsTable:   raw.ReadingsTable,
		BandsTable:      raw.BandsTable,
	}, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var result []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
