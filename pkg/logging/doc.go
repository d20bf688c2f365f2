// Package logging builds the slog loggers handed to every component.
//
// Loggers are constructed once by the entry point and passed down explicitly;
// nothing in this module logs through a package-level default. The helpers in
// this package keep attribute names and value formatting consistent across
// packages: [Snippet] bounds model output and document text quoted in log
// lines, [Size] renders byte counts for humans.
package logging
