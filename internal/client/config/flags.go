package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/biblio/internal/flagx"
)

// configFlags are the short flags owned by this package; everything else in
// args belongs to the command parser.
var configFlags = []string{"-a", "-s", "-t", "-m"}

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the library service
//	-s string   SQLite store path
//	-t int      request timeout in seconds
//	-m string   metrics listen address
func parseFlags(cfg *Config, args []string) error {
	filtered := flagx.FilterArgs(args, configFlags)

	fs := flag.NewFlagSet("biblio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the library service")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path to the local store")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")

	if err := fs.Parse(filtered); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
