package generator

import (
    "os"
    "path/filepath"
    "time"

    "github.com/allisson/go-env"
    "github.com/joho/godotenv"

    "github.com/alovak/cardgen-playground/internal/binlist"
    "github.com/alovak/cardgen-playground/internal/expiry"
)

// Config is a configuration for the generator application
type Config struct {
    HTTPAddr string
    // LogLevel is one of debug, info, warn, error.
    LogLevel string
    // BinlistURL is the base URL of the numbering-range registry.
    BinlistURL     string
    BinlistTimeout time.Duration
    // ExpiryYears is how far past the current year a random expiry may go.
    ExpiryYears int
    // AttemptsFactor bounds a batch to Count*AttemptsFactor generation attempts.
    AttemptsFactor int
    // SavedListLimit is the default number of saved cards returned by a listing.
    SavedListLimit int
    // FingerprintKey keys the HMAC used to index saved sequences.
    FingerprintKey string
    MetricsEnabled bool
}

func DefaultConfig() *Config {
    return &Config{
        HTTPAddr:       "localhost:9090",
        LogLevel:       "info",
        BinlistURL:     binlist.DefaultBaseURL,
        BinlistTimeout: binlist.DefaultTimeout,
        ExpiryYears:    expiry.DefaultWindow,
        AttemptsFactor: 20,
        SavedListLimit: 10,
        FingerprintKey: "dev-fingerprint-key",
        MetricsEnabled: true,
    }
}

// LoadConfig reads the configuration from environment variables, after
// loading the nearest .env file if there is one.
func LoadConfig() *Config {
    loadDotEnv()

    def := DefaultConfig()
    return &Config{
        HTTPAddr:       env.GetString("HTTP_ADDR", def.HTTPAddr),
        LogLevel:       env.GetString("LOG_LEVEL", def.LogLevel),
        BinlistURL:     env.GetString("BINLIST_URL", def.BinlistURL),
        BinlistTimeout: env.GetDuration("BINLIST_TIMEOUT_SECONDS", int64(def.BinlistTimeout/time.Second), time.Second),
        ExpiryYears:    env.GetInt("EXPIRY_YEARS", def.ExpiryYears),
        AttemptsFactor: env.GetInt("ATTEMPTS_FACTOR", def.AttemptsFactor),
        SavedListLimit: env.GetInt("SAVED_LIST_LIMIT", def.SavedListLimit),
        FingerprintKey: env.GetString("FINGERPRINT_KEY", def.FingerprintKey),
        MetricsEnabled: env.GetBool("METRICS_ENABLED", def.MetricsEnabled),
    }
}

// loadDotEnv walks up from the working directory and loads the first .env found.
func loadDotEnv() {
    cwd, err := os.Getwd()
    if err != nil {
        return
    }
    dir := cwd
    for {
        envPath := filepath.Join(dir, ".env")
        if _, err := os.Stat(envPath); err == nil {
            _ = godotenv.Load(envPath)
            return
        }
        parent := filepath.Dir(dir)
        if parent == dir {
            return
        }
        dir = parent
    }
}
