// Package cli implements commentctl, a terminal front end for comment
// threads and guided tours.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/bizdesk-backend/internal/app"
	"github.com/heartmarshall/bizdesk-backend/internal/client"
	"github.com/heartmarshall/bizdesk-backend/internal/config"
)

// env is shared by all subcommands once the root has loaded configuration.
type env struct {
	in     io.Reader
	out    io.Writer
	cfg    *config.ClientConfig
	log    *slog.Logger
	client *client.Client
}

// NewRootCommand builds the commentctl command tree reading interactive
// input from in and writing results to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	e := &env{in: in, out: &syncWriter{w: out}}

	var (
		baseURL string
		token   string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "commentctl",
		Short:         "Work with comment threads and guided tours from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				cfg.BaseURL = baseURL
			}
			if flags.Changed("token") {
				cfg.Token = token
			}
			if flags.Changed("timeout") {
				cfg.Timeout = timeout
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			e.cfg = cfg
			e.log = app.NewLogger(cfg.Log)
			e.client = client.New(*cfg, e.log)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&baseURL, "url", "", "comment service base URL (overrides config)")
	pf.StringVar(&token, "token", "", "bearer token; empty uses the public endpoints")
	pf.DurationVar(&timeout, "timeout", 0, "HTTP timeout (overrides config)")

	root.AddCommand(
		listCmd(e),
		postCmd(e),
		replyCmd(e),
		reactCmd(e),
		countsCmd(e),
		tourCmd(e),
	)
	return root
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

// syncWriter serializes writes from the auto-play goroutine and the
// command loop.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
