package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"skelcast/protocol"
)

// Environment keys for the replication tuning surface.
const (
	EnvSendRate      = "SKELCAST_SEND_RATE"
	EnvInterpDelayMS = "SKELCAST_INTERP_DELAY_MS"
	EnvBufferCap     = "SKELCAST_BUFFER_CAP"
	EnvListenAddr    = "SKELCAST_LISTEN_ADDR"
)

// Config is the replication tuning surface. Zero-config use gets the
// protocol defaults.
type Config struct {
	SendRate    float64 // snapshots per second
	InterpDelay float64 // seconds
	BufferCap   int
	ListenAddr  string // relay host bind address
}

// Load reads .env (if present) and the environment, falling back to the
// protocol defaults for anything unset or unparsable.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		logrus.Info("loaded environment variables from .env")
	}

	c := Config{
		SendRate:    protocol.DefaultSendRate,
		InterpDelay: protocol.DefaultInterpDelay,
		BufferCap:   protocol.DefaultBufferCap,
		ListenAddr:  ":8080",
	}
	if v, err := floatVar(EnvSendRate); err == nil && v > 0 {
		c.SendRate = v
	}
	if v, err := floatVar(EnvInterpDelayMS); err == nil && v > 0 {
		c.InterpDelay = v / 1000
	}
	if v, err := intVar(EnvBufferCap); err == nil && v > 0 {
		c.BufferCap = v
	}
	if v, err := GetEnvVariable(EnvListenAddr); err == nil {
		c.ListenAddr = v
	}
	return c
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}

func floatVar(key string) (float64, error) {
	s, err := GetEnvVariable(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logrus.Warnf("ignoring unparsable %s=%q: %v", key, s, err)
		return 0, err
	}
	return f, nil
}

func intVar(key string) (int, error) {
	s, err := GetEnvVariable(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		logrus.Warnf("ignoring unparsable %s=%q: %v", key, s, err)
		return 0, err
	}
	return n, nil
}
