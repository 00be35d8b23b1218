package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BindAddress   string
	BaseURL       string // used for returning absolute short URLs
	LinkDataPath  string
	KeyBlacklist  []string
	MergeInterval time.Duration
	QueueCapacity int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func defaultLinkDataPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "landmower", "links.toml")
}

func Load() Config {
	return Config{
		BindAddress:   getenv("LANDMOWER_BIND_ADDRESS", "localhost:7171"),
		BaseURL:       getenv("LANDMOWER_BASE_URL", "http://localhost:7171/"),
		LinkDataPath:  getenv("LANDMOWER_LINK_DATA_PATH", defaultLinkDataPath()),
		KeyBlacklist:  strings.Fields(getenv("LANDMOWER_KEY_BLACKLIST", "")),
		MergeInterval: time.Duration(getint("LANDMOWER_MERGE_INTERVAL_MS", 200)) * time.Millisecond,
		QueueCapacity: getint("LANDMOWER_QUEUE_CAPACITY", 0),
	}
}
