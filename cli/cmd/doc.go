// Package cmd implements the complexpr sub-commands: eval, fmt, repl, init
// and version.
//
// Commands receive their shared settings through the [context.Context] given
// to Run: the [kong.Context] ([WithContext]), the evaluation [Session]
// ([WithSession]) and the --source files ([WithSourceFiles]).
package cmd

var (
	// CacheIdentifier is the kong variable holding the cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable holding the path of the
	// configuration file.
	ConfigIdentifier = "config"
)
