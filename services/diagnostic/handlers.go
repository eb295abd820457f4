package diagnostic

import (
	"runtime"

	"github.com/influxdata/snsalert/keyvalue"
	"github.com/influxdata/snsalert/services/sns"
	"go.uber.org/zap"
)

func logFieldsFromContext(ctx []keyvalue.T) []zap.Field {
	fields := make([]zap.Field, len(ctx))
	for i, kv := range ctx {
		fields[i] = zap.String(kv.Key, kv.Value)
	}

	return fields
}

// SNS handler

type SNSHandler struct {
	l *zap.Logger
}

func (h *SNSHandler) WithContext(ctx ...keyvalue.T) sns.Diagnostic {
	fields := logFieldsFromContext(ctx)

	return &SNSHandler{
		l: h.l.With(fields...),
	}
}

func (h *SNSHandler) CreatingClient(region string, proxy string) {
	h.l.Debug("creating sns client", zap.String("region", region), zap.String("proxy", proxy))
}

func (h *SNSHandler) ResolvedTopic(name, arn string) {
	h.l.Debug("resolved sns topic", zap.String("topic", name), zap.String("topic_arn", arn))
}

func (h *SNSHandler) Published(messageID, to string) {
	h.l.Debug("sent sns message", zap.String("message_id", messageID), zap.String("to", to))
}

func (h *SNSHandler) Error(msg string, err error) {
	h.l.Error(msg, zap.Error(err))
}

// Server handler

type ServerHandler struct {
	l *zap.Logger
}

func (h *ServerHandler) Error(msg string, err error, ctx ...keyvalue.T) {
	fields := append([]zap.Field{zap.Error(err)}, logFieldsFromContext(ctx)...)
	h.l.Error(msg, fields...)
}

func (h *ServerHandler) Info(msg string, ctx ...keyvalue.T) {
	h.l.Info(msg, logFieldsFromContext(ctx)...)
}

func (h *ServerHandler) RegisteredCallback(id, name string) {
	h.l.Info("registered alarm callback", zap.String("id", id), zap.String("callback", name))
}

func (h *ServerHandler) Listening(addr string) {
	h.l.Info("listening for http requests", zap.String("addr", addr))
}

// Cmd handler

type CmdHandler struct {
	l *zap.Logger
}

func (h *CmdHandler) Error(msg string, err error) {
	h.l.Error(msg, zap.Error(err))
}

func (h *CmdHandler) Info(msg string, ctx ...keyvalue.T) {
	h.l.Info(msg, logFieldsFromContext(ctx)...)
}

func (h *CmdHandler) Starting(version, commit string) {
	h.l.Info("snsalert starting", zap.String("version", version), zap.String("commit", commit))
}

func (h *CmdHandler) GoVersion() {
	h.l.Debug("go version", zap.String("version", runtime.Version()))
}
