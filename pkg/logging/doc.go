// Package logging wraps the standard library slog package with
// nodedeploy defaults: structured JSON output to stderr, module and
// version context on every record, and LOG_LEVEL environment-based
// level configuration.
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("nodedeploy", version)
//
//	    slog.Info("deploying", "node", nodeURL)
//	}
//
// Supported log levels (case-insensitive): DEBUG, INFO (default),
// WARN/WARNING, ERROR. Debug level additionally records the source
// location of each log call.
package logging
