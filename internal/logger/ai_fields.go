package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the provider tier: none, hosted or self-hosted.
	FieldProvider = "ai_provider"
	// FieldVendor names the API behind the provider (openai, gemini, ollama).
	FieldVendor = "ai_vendor"
	// FieldModel is the model identifier.
	FieldModel = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with an empty key or value.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value := strings.TrimSpace(field.Value)
		if key == "" || value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to logger. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AIFields describes the backend a log entry talks to.
func AIFields(provider, vendor, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldVendor, Value: vendor},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithAI attaches AIFields to logger.
func WithAI(logger *zap.Logger, provider, vendor, model string) *zap.Logger {
	return WithFields(logger, AIFields(provider, vendor, model)...)
}
