// Package logging configures structured logging for the library and CLI.
//
// It is a thin layer over Go's standard log/slog package: it turns a
// small Config (level, format, output) into a ready *slog.Logger and can
// install it as the process default. Packages obtain component loggers
// with slog.Default().With("component", ...).
//
// # Usage
//
//	logger, err := logging.Setup(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stderr",
//	})
//	if err != nil {
//	    return err
//	}
//	logger.Info("client ready", "server", "http://127.0.0.1:9090")
//
// Logs go to stderr by default so command results written to stdout
// remain clean for piping.
package logging
