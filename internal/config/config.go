package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by ANIMA_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("ANIMA_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 3000
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// StorageDir is where the soul keeps its snapshot records and journal.
func StorageDir() string {
	dir := os.Getenv("STORAGE_DIR")
	if dir == "" {
		return "storage"
	}
	return dir
}

// JournalPath locates the SQLite operation journal.
func JournalPath() string {
	p := os.Getenv("JOURNAL_PATH")
	if p == "" {
		return filepath.Join(StorageDir(), "journal.db")
	}
	return p
}

// PersonaFile optionally points at a YAML identity override. Empty means
// the built-in persona.
func PersonaFile() string {
	return os.Getenv("PERSONA_FILE")
}

// SoulName is the soul's path name as clients address it.
// Defaults to "dot"; matching is case-insensitive.
func SoulName() string {
	name := os.Getenv("SOUL_NAME")
	if name == "" {
		return "dot"
	}
	return name
}

// AdminToken guards mutating API routes when set. Empty disables auth.
func AdminToken() string {
	return os.Getenv("ADMIN_TOKEN")
}

// SoulURL is the server base URL the companion and CLI talk to.
func SoulURL() string {
	u := os.Getenv("SOUL_URL")
	if u == "" {
		return "http://localhost:3000"
	}
	return u
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// ReflectionInterval is the cooldown between reflection activities.
func ReflectionInterval() time.Duration {
	return duration("REFLECTION_INTERVAL", time.Hour)
}

// ExperienceInterval is the cooldown between experience activities.
func ExperienceInterval() time.Duration {
	return duration("EXPERIENCE_INTERVAL", 30*time.Minute)
}

// ComposeInterval is the cooldown between compose activities.
func ComposeInterval() time.Duration {
	return duration("COMPOSE_INTERVAL", time.Hour)
}

func HealthTimeout() time.Duration {
	return duration("HEALTH_TIMEOUT", 5*time.Second)
}

func PerceiveTimeout() time.Duration {
	return duration("PERCEIVE_TIMEOUT", 30*time.Second)
}

func RequestTimeout() time.Duration {
	return duration("REQUEST_TIMEOUT", 10*time.Second)
}

// ComposerHistory locates the companion's post-history file.
func ComposerHistory() string {
	p := os.Getenv("COMPOSER_HISTORY")
	if p == "" {
		return filepath.Join(StorageDir(), "post_history.json")
	}
	return p
}

func duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
