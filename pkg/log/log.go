// Package log encapsula o logrus com os campos de rastreio da API e do pipeline:
// correlation_id por requisição e run_id por execução.
package log

import (
	"context"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Fields logrus.Fields

type Logger interface {
	WithField(key string, value interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
	WithContext(ctx context.Context) Logger

	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type contextKey string

const (
	CorrelationIDKey contextKey = "correlation_id"
	RunIDKey         contextKey = "run_id"
)

// Nomes dos campos de rastreio
const (
	CorrelationIDField = "correlation_id"
	RunIDField         = "run_id"
)

// pipelineFieldPrefix marca campos de métricas da execução, sempre mantidos
const pipelineFieldPrefix = "pipeline_"

// devFields são os campos que sobrevivem ao filtro de desenvolvimento
var devFields = map[string]bool{
	CorrelationIDField: true,
	RunIDField:         true,
	"method":           true,
	"path":             true,
	"status_code":      true,
	"duration_ms":      true,
	"error":            true,
	"source":           true,
	"reason":           true,
	"strategy":         true,
}

// logger delega ao logrus. keep nil significa sem filtro (produção).
type logger struct {
	entry *logrus.Entry
	keep  func(key string) bool
}

// L é a instância global usada pela API, pelo pipeline e pelos middlewares
var L Logger = New(logrus.StandardLogger())

// New cria um Logger sobre a instância logrus. Em desenvolvimento só os campos de rastreio
// e do pipeline são mantidos.
func New(base *logrus.Logger) Logger {
	l := &logger{entry: logrus.NewEntry(base)}
	if IsDevelopment() {
		l.keep = keepDevField
	}
	return l
}

// IsDevelopment retorna verdadeiro quando APP_ENV está vazio ou indica desenvolvimento
func IsDevelopment() bool {
	env := os.Getenv("APP_ENV")
	return env == "" || env == "development" || env == "dev"
}

func keepDevField(key string) bool {
	return devFields[key] || strings.HasPrefix(key, pipelineFieldPrefix)
}

func (l *logger) with(entry *logrus.Entry) Logger {
	return &logger{entry: entry, keep: l.keep}
}

func (l *logger) WithField(key string, value interface{}) Logger {
	if l.keep != nil && !l.keep(key) {
		return l
	}
	return l.with(l.entry.WithField(key, value))
}

func (l *logger) WithFields(fields Fields) Logger {
	kept := make(logrus.Fields, len(fields))
	for k, v := range fields {
		if l.keep == nil || l.keep(k) {
			kept[k] = v
		}
	}
	if len(kept) == 0 {
		return l
	}
	return l.with(l.entry.WithFields(kept))
}

func (l *logger) WithError(err error) Logger {
	return l.with(l.entry.WithError(err))
}

// WithContext adiciona correlation_id e run_id quando presentes no contexto
func (l *logger) WithContext(ctx context.Context) Logger {
	if ctx == nil {
		return l
	}

	fields := Fields{}
	if correlationID := GetCorrelationID(ctx); correlationID != "" {
		fields[CorrelationIDField] = correlationID
	}
	if runID := GetRunID(ctx); runID != "" {
		fields[RunIDField] = runID
	}

	return l.WithFields(fields)
}

func (l *logger) Debug(args ...interface{})                 { l.entry.Debug(args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logger) Info(args ...interface{})                  { l.entry.Info(args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.entry.Warn(args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logger) Error(args ...interface{})                 { l.entry.Error(args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

// WithCorrelationID gera um ID de correlação para a requisição
func WithCorrelationID(ctx context.Context) (context.Context, string) {
	correlationID := uuid.New().String()
	return context.WithValue(ctx, CorrelationIDKey, correlationID), correlationID
}

func GetCorrelationID(ctx context.Context) string {
	correlationID, _ := ctx.Value(CorrelationIDKey).(string)
	return correlationID
}

// WithRunID associa o identificador da execução do pipeline ao contexto
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

func GetRunID(ctx context.Context) string {
	runID, _ := ctx.Value(RunIDKey).(string)
	return runID
}

// StartRun marca o contexto com o run_id e devolve o logger da execução
func StartRun(ctx context.Context, runID string) (context.Context, Logger) {
	ctx = WithRunID(ctx, runID)
	return ctx, ForContext(ctx)
}

// ForContext cria um logger com os IDs de rastreio do contexto
func ForContext(ctx context.Context) Logger {
	return L.WithContext(ctx)
}
