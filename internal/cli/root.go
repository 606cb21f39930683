// Package cli implements the gedtree command line tool.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/gedgest/internal/charset"
	"github.com/dgallion1/gedgest/internal/gedcom"
	"github.com/dgallion1/gedgest/internal/version"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	lenient   bool
	maxLine   int
	logFormat string
	verbose   bool
}

// NewRootCmd builds the gedtree command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "gedtree",
		Short: "Inspect GEDCOM files",
		Long: `gedtree parses GEDCOM 5.5 files into a record tree and lets you check,
browse, and query them from the terminal.`,
		SilenceUsage: true,
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("gedtree %s\n", version.String()))

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.lenient, "lenient", false, "Skip malformed lines instead of failing")
	pf.IntVar(&opts.maxLine, "max-line", 0, "Reject lines longer than N bytes (0 = unlimited)")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		newCheckCmd(opts),
		newTreeCmd(opts),
		newShowCmd(opts),
		newFindCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func (o *globalOptions) logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	hopts := &slog.HandlerOptions{Level: level}
	switch o.logFormat {
	case "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text or json)", o.logFormat)
}

// load decodes and builds the file at path.
func (o *globalOptions) load(cmd *cobra.Command, path string) (*gedcom.Document, charset.Charset, error) {
	log, err := o.logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, charset.Charset{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, charset.Charset{}, err
	}
	defer f.Close()

	r, cs, err := charset.NewReader(f)
	if err != nil {
		return nil, charset.Charset{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Debug("charset detected", "file", path, "charset", cs.Name, "approximate", cs.Approximate)

	doc, err := gedcom.Parse(r, gedcom.Options{
		Lenient:       o.lenient,
		MaxLineLength: o.maxLine,
		Logger:        log.With("file", path),
	})
	if err != nil {
		return nil, cs, fmt.Errorf("%s: %w", path, err)
	}
	return doc, cs, nil
}
