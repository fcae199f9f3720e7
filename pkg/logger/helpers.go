package logger

import (
	"github.com/rs/zerolog"
)

// LogFetch writes the per-fetch side-channel record: username, url and message
func LogFetch(log Logger, username, url, message string) {
	if log == nil {
		log = GetLogger()
	}
	log.InfoWithFields(message, map[string]interface{}{
		"username": username,
		"url":      url,
	})
}

// LogPass logs the outcome of one retry pass
func LogPass(log Logger, attempt, candidates, failed int) {
	if log == nil {
		log = GetLogger()
	}
	log.InfoWithFields("Pass completed", map[string]interface{}{
		"attempt":    attempt,
		"candidates": candidates,
		"failed":     failed,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing (useful for testing)
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
