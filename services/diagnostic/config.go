package diagnostic

import (
	"fmt"
	"strings"
)

const (
	StdErr = "STDERR"
	StdOut = "STDOUT"
)

type Config struct {
	// File is STDERR, STDOUT or a path to append log lines to.
	File  string `toml:"file"`
	Level string `toml:"level"`
	// Encoding is either "json" or "console".
	Encoding string `toml:"encoding"`
}

func NewConfig() Config {
	return Config{
		File:     StdErr,
		Level:    "INFO",
		Encoding: "console",
	}
}

func (c Config) Validate() error {
	if c.File == "" {
		return fmt.Errorf("must specify a log file, %s or %s", StdErr, StdOut)
	}
	if _, err := parseLevel(c.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Encoding) {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log encoding %q", c.Encoding)
	}
	return nil
}
