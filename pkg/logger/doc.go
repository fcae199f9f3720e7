// Package logger provides the structured logging interface used across imdbratings.
//
// It wraps zerolog. Records go to a JSON log file (output.log by default) and,
// when no file is configured or console output is requested, to a colored
// console writer on stderr.
//
//	err := logger.Initialize(&cfg.Logging)
//	logger.WithField("input", path).Info("Profiles loaded")
//
// Every fetch step is recorded with LogFetch, which carries the username, the
// request URL and a short message.
package logger
