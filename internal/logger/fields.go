package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldAttempt is the structured log field key for a submission attempt id.
	FieldAttempt = "attempt_id"
	// FieldResume is the structured log field key for the submitted resume file name.
	FieldResume = "resume_file"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AttemptFields describes a submission attempt. Empty values are skipped.
func AttemptFields(attemptID, resumeFile string) []zap.Field {
	return StringFields(
		StringField{Key: FieldAttempt, Value: attemptID},
		StringField{Key: FieldResume, Value: resumeFile},
	)
}
