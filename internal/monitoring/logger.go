package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf and
// can be replaced with SetLogger, e.g. to mute output in tests.
var Logf func(format string, v ...any) = log.Printf

// SetLogger replaces the package logger. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...any)) {
	if f == nil {
		Logf = func(string, ...any) {}
		return
	}
	Logf = f
}
