package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends accepted in STORE_BACKEND.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Settings keeps all configuration options.
type Settings struct {
	ChainID         uint64
	RPCURLs         string // "id=url,..." overrides
	ReadConcurrency int
	PrivateKeyHex   string
	OwnerAddress    string
	StoreBackend    string
	StoreDir        string
	DatabaseURL     string
	ResetDelay      time.Duration
	GasBufferPct    int64
	BasefeeMul      int64
	TipGwei         int64
	LogLevel        string
	MetricsAddr     string
}

// Load reads settings from environment supporting both UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(key, def string) string {
		for _, k := range []string{strings.ToLower(key), strings.ToUpper(key)} {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				return v
			}
		}
		return def
	}
	getInt64 := func(key string, def int64) int64 {
		s := get(key, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		return def
	}
	getUint64 := func(key string, def uint64) uint64 {
		s := get(key, "")
		if s == "" {
			return def
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return n
		}
		return def
	}

	st := Settings{}
	st.ChainID = getUint64("CHAIN_ID", 1)
	st.RPCURLs = get("RPC_URLS", "")
	st.ReadConcurrency = int(getInt64("READ_CONCURRENCY", 16))
	st.PrivateKeyHex = get("BURN_PRIVATE_KEY", "")
	st.OwnerAddress = get("OWNER_ADDRESS", "")

	st.StoreBackend = strings.ToLower(get("STORE_BACKEND", BackendFile))
	st.StoreDir = get("STORE_DIR", ".inferno")
	st.DatabaseURL = get("DATABASE_URL", "")

	st.ResetDelay = time.Duration(getInt64("RESET_DELAY_MS", 3000)) * time.Millisecond
	st.GasBufferPct = getInt64("GAS_BUFFER_PCT", 5)
	st.BasefeeMul = getInt64("BASEFEE_MUL", 2)
	st.TipGwei = getInt64("TIP_GWEI", 1)

	st.LogLevel = strings.ToLower(get("LOG_LEVEL", "info"))
	st.MetricsAddr = get("METRICS_ADDR", "")
	return st
}
