package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/bizdesk-backend/internal/domain"
	"github.com/heartmarshall/bizdesk-backend/internal/tour"
	"github.com/heartmarshall/bizdesk-backend/internal/tour/sqlitestore"
)

// stepFile is the YAML layout of a tour definition.
type stepFile struct {
	ID    string `yaml:"id"`
	Steps []struct {
		ID          string  `yaml:"id"`
		Title       string  `yaml:"title"`
		Description string  `yaml:"description"`
		Target      string  `yaml:"target"`
		Position    string  `yaml:"position"`
		Action      *string `yaml:"action"`
		Highlight   bool    `yaml:"highlight"`
		ShowSkip    bool    `yaml:"show_skip"`
	} `yaml:"steps"`
}

// readStepFile parses a tour definition. Unknown keys are rejected.
func readStepFile(r io.Reader) (string, []domain.TourStep, error) {
	var f stepFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return "", nil, fmt.Errorf("parse tour file: %w", err)
	}

	steps := make([]domain.TourStep, len(f.Steps))
	for i, s := range f.Steps {
		pos := domain.TourPosition(s.Position)
		if pos == "" {
			pos = domain.TourPositionBottom
		}
		steps[i] = domain.TourStep{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Target:      s.Target,
			Position:    pos,
			Action:      s.Action,
			Highlight:   s.Highlight,
			ShowSkip:    s.ShowSkip,
		}
	}
	return f.ID, steps, nil
}

// statusStore picks where tour completion is kept: a local SQLite file when
// configured, the comment service when a token is set, memory otherwise.
func (e *env) statusStore(ctx context.Context) (tour.StatusStore, func(), error) {
	if path := e.cfg.Tour.StatusDBPath; path != "" {
		s, err := sqlitestore.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
	if e.client.Authenticated() {
		return e.client.TourStatuses(), func() {}, nil
	}
	return tour.NewMemoryStore(), func() {}, nil
}

func tourCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tour",
		Short: "Run guided tours and manage their completion status",
	}
	cmd.AddCommand(tourPlayCmd(e), tourStatusCmd(e), tourResetCmd(e))
	return cmd
}

func tourPlayCmd(e *env) *cobra.Command {
	var auto, autoplay bool

	cmd := &cobra.Command{
		Use:   "play <tour.yaml>",
		Short: "Walk through a tour interactively (n=next p=prev a=autoplay r=reset s=skip q=close)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			id, steps, err := readStepFile(f)
			f.Close()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, closeStore, err := e.statusStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			trigger := tour.TriggerManual
			if auto {
				trigger = tour.TriggerAuto
			}
			return e.playTour(ctx, id, steps, store, trigger, autoplay)
		},
	}
	cmd.Flags().BoolVar(&auto, "auto", false, "start as an automatic tour (skipped once seen, dismissal remembered)")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "advance automatically on the configured interval")
	return cmd
}

func (e *env) playTour(ctx context.Context, id string, steps []domain.TourStep, store tour.StatusStore, trigger tour.Trigger, autoplay bool) error {
	done := make(chan struct{})
	finish := func(msg string) func() {
		return func() {
			e.printf("%s\n", msg)
			close(done)
		}
	}

	engine, err := tour.New(e.log, id, steps, terminalSurface{}, store,
		tour.WithAutoPlayInterval(e.cfg.Tour.AutoPlayInterval),
		tour.WithHooks(tour.Hooks{
			OnStep: func(i int, s domain.TourStep) {
				e.printf("[%d/%d] %s\n", i+1, len(steps), s.Title)
				if s.Description != "" {
					e.printf("    %s\n", s.Description)
				}
				if s.Target != "" {
					e.printf("    target %s (%s)\n", s.Target, s.Position)
				}
			},
			OnComplete: finish("tour completed"),
			OnCancel:   finish("tour closed"),
		}),
	)
	if err != nil {
		return err
	}
	defer engine.Stop()

	if err := engine.Start(ctx, trigger); err != nil {
		if errors.Is(err, tour.ErrAlreadySeen) {
			e.printf("tour %s already seen\n", id)
			return nil
		}
		return err
	}
	if autoplay {
		engine.ToggleAutoPlay(ctx)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(e.in)
		for sc.Scan() {
			select {
			case lines <- strings.TrimSpace(sc.Text()):
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			switch line {
			case "n", "":
				engine.Next(ctx)
			case "p":
				engine.Prev()
			case "a":
				if engine.ToggleAutoPlay(ctx) {
					e.printf("autoplay on\n")
				} else {
					e.printf("autoplay off\n")
				}
			case "r":
				engine.Reset()
			case "s":
				engine.Skip(ctx)
			case "q":
				engine.Close(ctx)
			default:
				e.printf("unknown command %q\n", line)
			}
		}
	}
}

// terminalSurface treats every non-empty selector as present.
type terminalSurface struct{}

func (terminalSurface) Query(selector string) (tour.Element, bool) { return selector, selector != "" }
func (terminalSurface) ScrollIntoView(tour.Element)                {}

func tourStatusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status <tour-id>",
		Short: "Print the stored status of a tour",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := e.statusStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			st, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e.printf("%s\t%s\n", args[0], st)
			return nil
		},
	}
}

func tourResetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <tour-id>",
		Short: "Forget that a tour was completed or dismissed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := e.statusStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Clear(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.printf("%s reset\n", args[0])
			return nil
		},
	}
}
