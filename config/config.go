package config

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"spaceship-arena/protocol"
)

const (
	DefaultServerHost = "127.0.0.1"
	DefaultServerPort = 9050
	MaxPlayers        = protocol.MaxPlayers
)

// Config holds settings shared by the server and client binaries
type Config struct {
	ServerHost     string
	ServerPort     int
	ClientPort     int // 0 picks an ephemeral port
	Players        int // slots that must fill before the match starts
	MatchDuration  time.Duration
	UpdateInterval time.Duration // ALL_UPDATE and STATE_UPDATE cadence
	SyncInterval   time.Duration // TIME_SYNC cadence
	PollInterval   time.Duration // socket read deadline
	HighscoreDB    string        // SQLite path; empty disables
	HighscoreFile  string        // msgpack path, used when HighscoreDB is empty
	HTTPAddr       string        // spectator listener; empty disables
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		ServerHost:     DefaultServerHost,
		ServerPort:     DefaultServerPort,
		Players:        MaxPlayers,
		MatchDuration:  60 * time.Second,
		UpdateInterval: 50 * time.Millisecond,
		SyncInterval:   5 * time.Second,
		PollInterval:   50 * time.Millisecond,
		HighscoreFile:  "highscores.msgpack",
	}
}

// Load reads the optional .env files (".env" when none are given), then
// the environment. An ARENA_ENDPOINT_FILE holding host, server port and
// client port on three lines overrides the address settings.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	def := Default()
	cfg := Config{
		ServerHost:     getEnv("ARENA_SERVER_HOST", def.ServerHost),
		ServerPort:     getEnvInt("ARENA_SERVER_PORT", def.ServerPort),
		ClientPort:     getEnvInt("ARENA_CLIENT_PORT", def.ClientPort),
		Players:        getEnvInt("ARENA_PLAYERS", def.Players),
		MatchDuration:  time.Duration(getEnvInt("ARENA_MATCH_SECONDS", int(def.MatchDuration/time.Second))) * time.Second,
		UpdateInterval: parseDuration(getEnv("ARENA_UPDATE_INTERVAL", ""), def.UpdateInterval),
		SyncInterval:   parseDuration(getEnv("ARENA_SYNC_INTERVAL", ""), def.SyncInterval),
		PollInterval:   parseDuration(getEnv("ARENA_POLL_INTERVAL", ""), def.PollInterval),
		HighscoreDB:    getEnv("ARENA_HIGHSCORE_DB", def.HighscoreDB),
		HighscoreFile:  getEnv("ARENA_HIGHSCORE_FILE", def.HighscoreFile),
		HTTPAddr:       getEnv("ARENA_HTTP_ADDR", def.HTTPAddr),
	}

	if path := os.Getenv("ARENA_ENDPOINT_FILE"); path != "" {
		if err := cfg.readEndpointFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges both peers depend on
func (c Config) Validate() error {
	if c.Players < 1 || c.Players > MaxPlayers {
		return fmt.Errorf("players must be 1..%d, got %d", MaxPlayers, c.Players)
	}
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("server port out of range: %d", c.ServerPort)
	}
	if c.ClientPort < 0 || c.ClientPort > 65535 {
		return fmt.Errorf("client port out of range: %d", c.ClientPort)
	}
	if c.MatchDuration <= 0 {
		return fmt.Errorf("match duration must be positive, got %s", c.MatchDuration)
	}
	if c.UpdateInterval <= 0 || c.SyncInterval <= 0 || c.PollInterval <= 0 {
		return errors.New("intervals must be positive")
	}
	return nil
}

// ServerAddr is host:port of the server socket
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

func (c *Config) readEndpointFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("endpoint file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() && len(lines) < 3 {
		lines = append(lines, strings.TrimSpace(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("endpoint file %s: %w", path, err)
	}

	if len(lines) > 0 && lines[0] != "" {
		c.ServerHost = lines[0]
	}
	for i, dst := range []*int{&c.ServerPort, &c.ClientPort} {
		if len(lines) <= i+1 || lines[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(lines[i+1])
		if err != nil {
			return fmt.Errorf("endpoint file %s line %d: %w", path, i+2, err)
		}
		*dst = n
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
