// Package cli implements the songtiment command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/edh5623/Songtiment-Analysis/internal/adapters/rest"
	"github.com/edh5623/Songtiment-Analysis/internal/config"
	"github.com/edh5623/Songtiment-Analysis/internal/core/domain"
)

const shortUsage = `songtiment [-s "song"] -a "artist"`

// analyzer is the part of services.Analyzer the command drives.
type analyzer interface {
	Analyze(ctx context.Context, title, artist string) (domain.Analysis, error)
}

// pipeline is everything an analysis needs, built from the config.
type pipeline struct {
	analyzer analyzer
	store    rest.AnalysisStore // nil without -db
	close    func() error
}

type buildFunc func(ctx context.Context, cfg *config.Config, out io.Writer) (*pipeline, error)

// Run parses args and executes the command, writing usage and the report to
// out. Help requests and songs without lyrics are not errors.
func Run(ctx context.Context, args []string, out io.Writer) error {
	return run(ctx, args, out, build)
}

func run(ctx context.Context, args []string, out io.Writer, b buildFunc) error {
	err := newCommand(out, b).ParseAndRun(ctx, args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flag.ErrHelp):
		return nil
	case errors.Is(err, domain.ErrSongNotFound):
		log.Printf("WARN cli: %v", err)
		return nil
	}
	return err
}

func newCommand(out io.Writer, b buildFunc) *ffcli.Command {
	fs := flag.NewFlagSet("songtiment", flag.ContinueOnError)
	fs.SetOutput(out)
	_ = fs.String("config", "", "config file (optional)")

	var title, artist string
	fs.StringVar(&title, "s", "", "song title")
	fs.StringVar(&artist, "a", "", "artist (required)")

	cfg := &config.Config{}
	cfg.RegisterFlags(fs)

	var cmd *ffcli.Command
	cmd = &ffcli.Command{
		Name:       "songtiment",
		ShortUsage: shortUsage,
		ShortHelp:  "score the sentiment of a song from its lyrics, title and audio features",
		FlagSet:    fs,
		UsageFunc:  usage,
		Options: []ff.Option{
			ff.WithConfigFileFlag("config"),
			ff.WithConfigFileParser(ff.PlainParser),
			ff.WithEnvVarPrefix("SONGTIMENT"),
		},
		Subcommands: []*ffcli.Command{newServeCommand(b)},
		Exec: func(ctx context.Context, args []string) error {
			if artist == "" {
				fmt.Fprintln(out, usage(cmd))
				return nil
			}
			// only an absent -s selects the discography; -s "" is still a song
			if !isSet(fs, "s") {
				fmt.Fprintf(out, "Analyzing music by %s ...\n\n", artist)
				fmt.Fprintln(out, "Analysis of full discography not yet implemented.")
				return nil
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Debug {
				log.Printf("DEBUG cli: analyzing %q by %q", title, artist)
			}

			p, err := b(ctx, cfg, out)
			if err != nil {
				return err
			}
			defer p.release()

			_, err = p.analyzer.Analyze(ctx, title, artist)
			return err
		},
	}
	return cmd
}

// usage renders the usage line followed by the flag table.
func usage(c *ffcli.Command) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString(shortUsage)
	b.WriteString("\n")

	if c == nil || c.FlagSet == nil {
		return b.String()
	}

	b.WriteString("\nFlags:\n")
	tw := tabwriter.NewWriter(&b, 0, 2, 2, ' ', 0)
	c.FlagSet.VisitAll(func(f *flag.Flag) {
		def := f.DefValue
		if def == "" {
			def = "..."
		}
		fmt.Fprintf(tw, "  -%s %s\t%s\n", f.Name, def, f.Usage)
	})
	tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func (p *pipeline) release() {
	if p.close == nil {
		return
	}
	if err := p.close(); err != nil {
		log.Printf("WARN cli: close failed: %v", err)
	}
}

// isSet reports whether the named flag was given on the command line, in the
// environment or in the config file.
func isSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
