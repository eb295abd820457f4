package main

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/influxdata/snsalert/alert"
	"github.com/influxdata/snsalert/keyvalue"
	"github.com/influxdata/snsalert/server"
	"github.com/influxdata/snsalert/services/diagnostic"
	"github.com/influxdata/snsalert/services/sns"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

type Diagnostic interface {
	Error(msg string, err error)
	Info(msg string, ctx ...keyvalue.T)
	Starting(version, commit string)
	GoVersion()
}

// Main holds the streams and bootstrap logger shared by every command.
type Main struct {
	Diag Diagnostic

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// loadConfig parses the config at path, if any, then applies environment
// overrides.
func loadConfig(path string) (*server.Config, error) {
	c := server.NewConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, c); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config %s", path)
		}
	}
	if err := c.ApplyEnvOverrides(); err != nil {
		return nil, errors.Wrap(err, "failed to apply env overrides")
	}
	return c, nil
}

func (m *Main) printConfig(ctx *cli.Context) error {
	return toml.NewEncoder(m.Stdout).Encode(server.NewConfig())
}

func (m *Main) printFields(ctx *cli.Context) error {
	return m.printJSON(sns.RequestedConfiguration())
}

func (m *Main) printAttributes(ctx *cli.Context) error {
	c, err := loadConfig(ctx.String("config"))
	if err != nil {
		return err
	}
	return m.printJSON(sns.Redact(c.SNS.Configuration().Source()))
}

func (m *Main) printJSON(v interface{}) error {
	enc := json.NewEncoder(m.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// openServer builds a server from the config flag with SNS enabled.
func (m *Main) openServer(ctx *cli.Context) (*server.Server, *diagnostic.Service, error) {
	c, err := loadConfig(ctx.String("config"))
	if err != nil {
		return nil, nil, err
	}
	c.SNS.Enabled = true

	diagService := diagnostic.NewService(c.Logging, m.Stdout, m.Stderr)
	if err := diagService.Open(); err != nil {
		return nil, nil, errors.Wrap(err, "failed to open diagnostic service")
	}

	s, err := server.New(c, server.BuildInfo{Version: version, Commit: commit, Branch: branch}, diagService)
	if err != nil {
		diagService.Close()
		return nil, nil, err
	}
	if err := s.Open(); err != nil {
		s.Close()
		diagService.Close()
		return nil, nil, err
	}
	return s, diagService, nil
}

func (m *Main) send(ctx *cli.Context) error {
	message := ctx.String("message")
	if message == "" {
		message = strings.Join(ctx.Args().Slice(), " ")
	}
	if message == "" {
		return errors.New("a message is required")
	}

	s, diagService, err := m.openServer(ctx)
	if err != nil {
		return err
	}
	defer diagService.Close()
	defer s.Close()

	return s.Trigger(alert.Stream{ID: ctx.String("stream")}, alert.CheckResult{
		ResultDescription: message,
		TriggeredAt:       time.Now(),
		Level:             alert.Critical,
	})
}

func (m *Main) run(ctx *cli.Context) error {
	level, err := alert.ParseLevel(ctx.String("level"))
	if err != nil {
		return err
	}

	m.Diag.Starting(version, commit)
	m.Diag.GoVersion()

	s, diagService, err := m.openServer(ctx)
	if err != nil {
		return err
	}
	defer diagService.Close()
	defer s.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(m.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			m.Diag.Error("failed to read stdin", err)
		}
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	stream := alert.Stream{ID: ctx.String("stream")}
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			// Failures are logged by the server; keep reading.
			_ = s.Trigger(stream, alert.CheckResult{
				ResultDescription: line,
				TriggeredAt:       time.Now(),
				Level:             level,
			})
		case sig := <-signals:
			m.Diag.Info("signal received, shutting down", keyvalue.KV("signal", sig.String()))
			return nil
		}
	}
}
