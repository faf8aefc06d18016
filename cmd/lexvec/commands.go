package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/viant/lexvec/changelog"
	"github.com/viant/lexvec/compose"
	"github.com/viant/lexvec/internal/config"
	"github.com/viant/lexvec/lexeme"
	"github.com/viant/lexvec/lexicon"
	"github.com/viant/lexvec/snapshot"
	"github.com/viant/lexvec/vector"
)

func addCmd() *cobra.Command {
	var particle, gloss string
	cmd := &cobra.Command{
		Use:   "add <word> <tag>",
		Short: "Classify, encode and store one word",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				res, err := a.svc.Ingest(ctx, lexicon.Entry{Word: args[0], Tag: args[1], Particle: particle, Gloss: gloss})
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				printRecords(out, []vector.Record{res.Record})
				if res.Fallback {
					fmt.Fprintf(out, "note: no %s entry for %s, used the category default\n", res.Record.Particle, res.Record.Category)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&particle, "particle", "", "particle class override")
	cmd.Flags().StringVar(&gloss, "gloss", "", "free-text gloss")
	return cmd
}

func ingestCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Ingest a word list (csv, tsv, json or yaml)",
		Long: "Ingest a word list. Delimited files have no header and up to four columns:\n" +
			"word, tag, particle class (optional), gloss (optional).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryFormat := format
			if entryFormat == "" {
				entryFormat = lexicon.FormatFromPath(args[0])
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			entries, err := lexicon.ReadEntries(f, entryFormat)
			if err != nil {
				return errors.Wrap(err, args[0])
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				report, err := a.svc.IngestBatch(ctx, entries)
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "total %d, stored %d, failed %d, fallbacks %d\n",
					report.Total, report.Stored, len(report.Failures), report.Fallbacks)
				for _, fl := range report.Failures {
					fmt.Fprintf(out, "  entry %d (%q): %v\n", fl.Index+1, fl.Word, fl.Err)
				}
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "input format (default: from file extension)")
	return cmd
}

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <word>",
		Short: "Show the record of one word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				rec, err := a.svc.Lookup(ctx, args[0])
				if errors.Is(err, vector.ErrNotFound) {
					return errors.Errorf("%q is not in the lexicon", args[0])
				}
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), []vector.Record{*rec})
				return nil
			})
		},
	}
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find [text]",
		Short: "List words whose key or gloss contains text; no text lists everything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 1 {
				text = args[0]
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				recs, err := a.svc.Find(ctx, text)
				if err != nil {
					return err
				}
				printRecords(cmd.OutOrStdout(), recs)
				return nil
			})
		},
	}
}

func searchCmd() *cobra.Command {
	var (
		top  int
		like string
	)
	cmd := &cobra.Command{
		Use:   "search [v1,v2,...]",
		Short: "Rank words by dot product with a query vector",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (like != "") {
				return errors.New("give either a query vector or --like")
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				var query []float32
				if like != "" {
					rec, err := a.svc.Lookup(ctx, like)
					if err != nil {
						return errors.Wrapf(err, "lookup %q", like)
					}
					query = rec.Vector
				} else {
					var err error
					if query, err = parseVector(args[0]); err != nil {
						return err
					}
				}
				matches, err := a.svc.Similar(ctx, query, top)
				if err != nil {
					return err
				}
				printMatches(cmd.OutOrStdout(), matches)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&top, "top", "n", 10, "number of results, 0 for all")
	cmd.Flags().StringVar(&like, "like", "", "use the vector of a stored word as query")
	return cmd
}

func gistCmd() *cobra.Command {
	var (
		mode         string
		disambiguate bool
	)
	cmd := &cobra.Command{
		Use:   "gist <word>...",
		Short: "Aggregate the vectors of stored words into one gist vector",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := compose.ParseMode(mode)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				res, err := a.svc.Gist(ctx, args, m, disambiguate)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				features := a.svc.Table().Features()
				for i, v := range res.Vector {
					fmt.Fprintf(tw, "%s\t%s\n", features[i], strconv.FormatFloat(float64(v), 'g', 4, 32))
				}
				_ = tw.Flush()
				if len(res.Missing) > 0 {
					fmt.Fprintf(out, "skipped unknown: %s\n", strings.Join(res.Missing, ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", compose.SumClamp.String(), "SUM_CLAMP or WEIGHTED_AVERAGE")
	cmd.Flags().BoolVar(&disambiguate, "disambiguate", false, "apply the disambiguation pass first")
	return cmd
}

func exportCmd() *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as a JSON or YAML snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := snapshot.ParseFormat(format)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				w := cmd.OutOrStdout()
				if out != "" && out != "-" {
					file, err := os.Create(out)
					if err != nil {
						return err
					}
					defer file.Close()
					w = file
				}
				n, err := a.svc.Export(ctx, w, f)
				if err != nil {
					return err
				}
				a.logger.Info("export completed", "records", n, "format", f)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", string(snapshot.JSON), "json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON or YAML snapshot; nothing is written if any record is invalid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := format
			if name == "" {
				name = string(snapshot.JSON)
				if lexicon.FormatFromPath(args[0]) == lexicon.FormatYAML {
					name = string(snapshot.YAML)
				}
			}
			f, err := snapshot.ParseFormat(name)
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			return withApp(cmd, func(ctx context.Context, a *app) error {
				n, err := a.svc.Import(ctx, file, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d records\n", n)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default: from file extension)")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count words per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				st, err := a.svc.Stats(ctx)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, c := range lexeme.Categories() {
					if n := st.ByCategory[c]; n > 0 {
						fmt.Fprintf(tw, "%s\t%d\n", c, n)
					}
				}
				fmt.Fprintf(tw, "TOTAL\t%d\n", st.Total)
				return tw.Flush()
			})
		},
	}
}

func featuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "Print the feature table as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return errors.Wrap(err, "invalid configuration")
			}
			table, err := loadTable(cfg)
			if err != nil {
				return err
			}
			return table.WriteYAML(cmd.OutOrStdout())
		},
	}
}

func changesCmd() *cobra.Command {
	var (
		after int64
		limit int
	)
	cmd := &cobra.Command{
		Use:   "changes",
		Short: "Show the write log (sqlite with --changelog)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if a.db == nil {
					return errors.Errorf("the change log needs the %s driver", config.DriverSQLite)
				}
				entries, err := changelog.Read(ctx, a.db, "", after, limit)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SEQ\tOP\tKEY\tAT")
				for _, e := range entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Seq, e.Op, e.Key, e.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().Int64Var(&after, "after", 0, "show entries after this sequence number")
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum number of entries, 0 for all")
	return cmd
}

func formatVector(v []float32) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(float64(x), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func parseVector(s string) ([]float32, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return nil, errors.New("empty query vector")
	}
	parts := strings.Split(s, ",")
	out := make([]float32, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, errors.Wrapf(err, "coordinate %d", i)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func printRecords(w io.Writer, recs []vector.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WORD\tCATEGORY\tPARTICLE\tVECTOR\tGLOSS")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Key, r.Category, r.Particle, formatVector(r.Vector), r.Gloss)
	}
	_ = tw.Flush()
}

func printMatches(w io.Writer, matches []vector.Match) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tWORD\tCATEGORY\tVECTOR")
	for _, m := range matches {
		fmt.Fprintf(tw, "%.4f\t%s\t%s\t%s\n", m.Score, m.Key, m.Category, formatVector(m.Vector))
	}
	_ = tw.Flush()
}
