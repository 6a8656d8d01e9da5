package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables
const (
	EnvDownloadDir  = "YTDOWN_DOWNLOAD_DIR"
	EnvFormat       = "YTDOWN_FORMAT"
	EnvLogLevel     = "YTDOWN_LOG_LEVEL"
	EnvLogConsole   = "YTDOWN_LOG_CONSOLE"
	EnvInstallYTDLP = "YTDOWN_YTDLP_INSTALL"
)

// DefaultEnvFiles are read in order; later files override earlier ones.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Default environment values
const (
	DefaultLogLevel = "info"
)

// Env holds process-level overrides read from the environment and dotenv
// files. Variables set in the process environment win over files.
type Env struct {
	DownloadDir  string
	FormatKey    string
	LogLevel     string
	LogConsole   bool
	InstallYTDLP bool
}

// LoadEnv reads the dotenv files (missing ones are skipped) and the process
// environment. With no files given DefaultEnvFiles are used.
func LoadEnv(files ...string) (Env, error) {
	if len(files) == 0 {
		files = DefaultEnvFiles
	}

	values := make(map[string]string)
	for _, file := range files {
		vars, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Env{}, fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range vars {
			values[k] = v
		}
	}

	lookup := func(key, fallback string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v, ok := values[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	return Env{
		DownloadDir:  lookup(EnvDownloadDir, ""),
		FormatKey:    lookup(EnvFormat, ""),
		LogLevel:     lookup(EnvLogLevel, DefaultLogLevel),
		LogConsole:   parseBool(lookup(EnvLogConsole, ""), false),
		InstallYTDLP: parseBool(lookup(EnvInstallYTDLP, ""), false),
	}, nil
}

func parseBool(v string, fallback bool) bool {
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
