package diagnostic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service owns the root logger and hands out per-service diagnostic handlers.
type Service struct {
	c      Config
	stdout io.Writer
	stderr io.Writer

	mu     sync.Mutex
	root   *zap.Logger
	level  zap.AtomicLevel
	closer io.Closer
}

func NewService(c Config, stdout, stderr io.Writer) *Service {
	return &Service{
		c:      c,
		stdout: stdout,
		stderr: stderr,
		level:  zap.NewAtomicLevel(),
		root:   zap.NewNop(),
	}
}

// BootstrapMainHandler returns a handler for use before configuration has
// been read.
func BootstrapMainHandler() *CmdHandler {
	s := NewService(NewConfig(), nil, os.Stderr)
	// The default configuration always opens.
	_ = s.Open()
	return s.NewCmdHandler()
}

func (s *Service) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var output io.Writer
	switch s.c.File {
	case StdErr:
		output = s.stderr
	case StdOut:
		output = s.stdout
	default:
		dir := filepath.Dir(s.c.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(s.c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
		if err != nil {
			return err
		}
		output = f
		s.closer = f
	}
	if output == nil {
		output = io.Discard
	}

	if err := s.setLevel(s.c.Level); err != nil {
		return err
	}

	encConfig := zap.NewProductionEncoderConfig()
	encConfig.TimeKey = "ts"
	encConfig.LevelKey = "lvl"
	encConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(s.c.Encoding) {
	case "json":
		encoder = zapcore.NewJSONEncoder(encConfig)
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encConfig)
	default:
		return fmt.Errorf("unknown log encoding %s", s.c.Encoding)
	}

	s.root = zap.New(zapcore.NewCore(encoder, zapcore.AddSync(output), s.level))
	return nil
}

func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.root.Sync()
	if s.closer != nil {
		err := s.closer.Close()
		s.closer = nil
		return err
	}
	return nil
}

func (s *Service) SetLevel(level string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLevel(level)
}

func (s *Service) setLevel(level string) error {
	l, err := parseLevel(level)
	if err != nil {
		return err
	}
	s.level.SetLevel(l)
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel, nil
	case "INFO":
		return zapcore.InfoLevel, nil
	case "WARN":
		return zapcore.WarnLevel, nil
	case "ERROR":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown logging level %s", level)
	}
}

func (s *Service) logger(service string) *zap.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.With(zap.String("service", service))
}

func (s *Service) NewSNSHandler() *SNSHandler {
	return &SNSHandler{
		l: s.logger("sns"),
	}
}

func (s *Service) NewServerHandler() *ServerHandler {
	return &ServerHandler{
		l: s.logger("server"),
	}
}

func (s *Service) NewCmdHandler() *CmdHandler {
	return &CmdHandler{
		l: s.logger("run"),
	}
}
