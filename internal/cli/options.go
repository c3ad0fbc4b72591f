package cli

import (
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/aretw0/tms/pkg/observability"
)

// Options are the flags shared by every command.
type Options struct {
	ConfPath string
	Debug    bool
	LogFile  string
	Blank    string
	Indexed  bool

	Stdout io.Writer
	Stderr io.Writer
}

// blank returns the blank symbol selected by --blank.
func (o Options) blank() (domain.Symbol, error) {
	if o.Blank == "" {
		return domain.DefaultBlank, nil
	}
	if utf8.RuneCountInString(o.Blank) != 1 {
		return 0, fmt.Errorf("--blank must be a single character, got %q", o.Blank)
	}
	r, _ := utf8.DecodeRuneInString(o.Blank)
	return domain.Symbol(r), nil
}

// simulatorOptions translates the shared flags into library options.
func (o Options) simulatorOptions(logger *slog.Logger) ([]tms.Option, error) {
	blank, err := o.blank()
	if err != nil {
		return nil, err
	}
	opts := []tms.Option{
		tms.WithLogger(logger),
		tms.WithBlank(blank),
		tms.WithIndexedMatcher(o.Indexed),
	}
	if o.Debug {
		opts = append(opts, tms.WithLifecycleHooks(observability.LoggingHooks(logger)))
	}
	return opts, nil
}

// load opens the configuration named by --conf.
func (o Options) load(logger *slog.Logger) (*tms.Simulator, error) {
	if o.ConfPath == "" {
		return nil, fmt.Errorf("no configuration file: pass --conf or a path argument")
	}
	opts, err := o.simulatorOptions(logger)
	if err != nil {
		return nil, err
	}
	sim, err := tms.Load(o.ConfPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", o.ConfPath, err)
	}
	return sim, nil
}
