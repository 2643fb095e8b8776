package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/handlekeeper/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-a string   HTTP listen address (e.g. ":8080")
//	-d string   PostgreSQL DSN
//	-s string   token signing secret
//	-t int      token validity, minutes
//	-l string   log level
//	-f string   comment feed URL
//	-r string   Redis URL for the poller snapshot
//
// Unknown flags are filtered out first so that -c/-config and flags meant
// for other components do not cause a parse failure.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-l", "-f", "-r"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to listen on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "token signing secret")
	tokenTTL := fs.Int("t", int(config.TokenTTL.Minutes()), "token validity (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.CommentFeedURL, "f", config.CommentFeedURL, "comment feed URL")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL for poller state")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only overwrite when -t was given, so sub-minute TTLs from other
	// sources survive.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.TokenTTL = time.Duration(*tokenTTL) * time.Minute
		}
	})
}
