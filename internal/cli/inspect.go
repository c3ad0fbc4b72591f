package cli

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/tms/internal/compiler"
	"github.com/aretw0/tms/internal/presentation/graph"
	"github.com/aretw0/tms/internal/presentation/tui"
	"github.com/aretw0/tms/internal/validator"
	"github.com/aretw0/tms/pkg/adapters/file"
	"github.com/aretw0/tms/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Output formats of the info and validate commands.
const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

// Info prints the loaded machine: states, tape, head and numbered instructions.
func Info(opts Options, format string) error {
	logger, closeLog, err := createLogger(opts.Debug, opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	sim, err := opts.load(logger)
	if err != nil {
		return err
	}
	snap := sim.Snapshot()
	// The raw text duplicates the instruction list.
	snap.Config = ""

	switch format {
	case FormatText, "":
		md := tui.InfoMarkdown(snap)
		if !isTerminal(opts.Stdout) {
			_, err = fmt.Fprint(opts.Stdout, md)
			return err
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			return fmt.Errorf("failed to render info: %w", err)
		}
		_, err = fmt.Fprint(opts.Stdout, out)
		return err
	case FormatMarkdown:
		_, err = fmt.Fprint(opts.Stdout, tui.InfoMarkdown(snap))
		return err
	default:
		return encode(opts, format, snap)
	}
}

// Graph prints a Mermaid diagram of the instruction set.
func Graph(opts Options) error {
	prog, err := parseFile(opts.ConfPath)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(opts.Stdout, graph.GenerateMermaid(prog, &graph.GraphOverlay{CurrentState: prog.State}))
	return err
}

// Validate loads the configuration and reports structural problems.
// Warnings are printed; only error issues make it fail.
func Validate(opts Options, format string) error {
	prog, err := parseFile(opts.ConfPath)
	if err != nil {
		return err
	}
	report := validator.Validate(prog)

	switch format {
	case FormatText, "":
		for _, issue := range report.Issues {
			fmt.Fprintln(opts.Stdout, issue)
		}
		if report.Err() == nil {
			fmt.Fprintf(opts.Stdout, "%s is valid (%d instructions, %d warnings)\n",
				opts.ConfPath, len(prog.Instructions), len(report.Issues))
		}
	default:
		if err := encode(opts, format, report); err != nil {
			return err
		}
	}
	return report.Err()
}

func parseFile(path string) (*domain.Program, error) {
	if path == "" {
		return nil, fmt.Errorf("no configuration file: pass --conf or a path argument")
	}
	rc, err := file.NewSource(path).Open()
	if err != nil {
		return nil, &domain.ConfigError{Kind: domain.ConfigIo, Err: err}
	}
	defer rc.Close()

	prog, err := compiler.NewParser().Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	return prog, nil
}

func encode(opts Options, format string, v any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(opts.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q (want %s, %s, %s or %s)", format, FormatText, FormatMarkdown, FormatYAML, FormatJSON)
}
