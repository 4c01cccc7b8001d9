/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Seednode/triviabox/games/jeopardy"
	"github.com/Seednode/triviabox/games/jeopardy/jservice"
)

type Config struct {
	bind           string
	port           int
	prefix         string
	profile        bool
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool

	apiURL          string
	categoryPool    int
	clueDB          string
	concurrentFetch int
	fetchTimeout    time.Duration
	height          int
	width           int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return c.validateBoard()
}

func (c *Config) validateBoard() error {
	if c.width < 1 {
		return fmt.Errorf("invalid width (must be at least 1): %d", c.width)
	}
	if c.height < 2 {
		return fmt.Errorf("invalid height (must be at least 2, including the header row): %d", c.height)
	}
	if c.categoryPool < c.width {
		return fmt.Errorf("category pool (%d) must be at least as large as the board width (%d)", c.categoryPool, c.width)
	}
	if c.concurrentFetch < 0 {
		return fmt.Errorf("invalid --concurrent-fetch (must not be negative): %d", c.concurrentFetch)
	}
	if c.fetchTimeout <= 0 {
		return fmt.Errorf("invalid --fetch-timeout (must be positive): %s", c.fetchTimeout)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) fetchFunc() jeopardy.FetchFunc {
	if c.concurrentFetch > 0 {
		return jeopardy.FetchConcurrent(c.concurrentFetch)
	}
	return jeopardy.FetchSequential
}

// bindEnv lets every flag in fs be set from a TRIVIABOX_ environment
// variable. Flags given on the command line still win.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TRIVIABOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "triviabox",
		Short:         "A trivia board game, served as a shared webapp.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TRIVIABOX_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TRIVIABOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TRIVIABOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TRIVIABOX_PROFILE)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "time before idle games are ended (env: TRIVIABOX_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TRIVIABOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TRIVIABOX_TLS_KEY)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TRIVIABOX_VERSION)")

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.apiURL, "api-url", jservice.DefaultBaseURL, "base url of the jService-compatible trivia api (env: TRIVIABOX_API_URL)")
	pfs.IntVar(&cfg.categoryPool, "category-pool", jeopardy.DefaultPoolSize, "number of categories to draw each board from (env: TRIVIABOX_CATEGORY_POOL)")
	pfs.StringVar(&cfg.clueDB, "clue-db", "", "sqlite clue database to play from instead of the api (env: TRIVIABOX_CLUE_DB)")
	pfs.IntVar(&cfg.concurrentFetch, "concurrent-fetch", 0, "categories to fetch in parallel, 0 to fetch one at a time (env: TRIVIABOX_CONCURRENT_FETCH)")
	pfs.DurationVar(&cfg.fetchTimeout, "fetch-timeout", 10*time.Second, "timeout for each request to the trivia api (env: TRIVIABOX_FETCH_TIMEOUT)")
	pfs.IntVar(&cfg.height, "height", 6, "board height, including the category row (env: TRIVIABOX_HEIGHT)")
	pfs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TRIVIABOX_VERBOSE)")
	pfs.IntVar(&cfg.width, "width", 6, "number of categories on the board (env: TRIVIABOX_WIDTH)")

	bindEnv(v, fs)
	bindEnv(v, pfs)

	cmd.AddCommand(newPreviewCmd(cfg), newMirrorCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("triviabox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
