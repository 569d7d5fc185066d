// Command snapshot runs catalogue targets against a saved HTML page, for
// checking selector changes without a browser.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"paintly-probe/internal/document/htmldoc"
	"paintly-probe/internal/locator"
	"paintly-probe/internal/logger"
	"paintly-probe/internal/targets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type row struct {
	Target     string           `json:"target"`
	Found      bool             `json:"found"`
	Index      int              `json:"index"`
	Strategy   locator.Strategy `json:"strategy,omitempty"`
	Expression string           `json:"expression,omitempty"`
	Element    string           `json:"element,omitempty"`
}

type options struct {
	target    string
	overrides string
	scanLimit int
	asJSON    bool
	debug     bool
}

func main() {
	if err := command().Execute(); err != nil {
		os.Exit(1)
	}
}

func command() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "snapshot FILE",
		Short: "Probe catalogue targets in a saved HTML page",
		Long: `Probe catalogue targets in a saved HTML page.

Every target is resolved with the same candidate and scan policy the live
probes use, so a selector change can be checked against a page saved from
the browser before running anything against the app.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zap.NewNop()
			if opts.debug {
				log = logger.Must(true)
				defer func() { _ = log.Sync() }()
			}
			return run(cmd.Context(), cmd.OutOrStdout(), args[0], opts, log)
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&opts.target, "target", "", "single target to probe; all targets when empty")
	cmd.Flags().StringVar(&opts.overrides, "targets", os.Getenv("PROBE_TARGETS_PATH"), "YAML target overrides")
	cmd.Flags().IntVar(&opts.scanLimit, "scan-limit", locator.DefaultScanLimit, "elements inspected per scan")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log every candidate tried")
	return cmd
}

func run(ctx context.Context, out io.Writer, file string, opts options, log *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cat, err := targets.Load(opts.overrides, opts.scanLimit)
	if err != nil {
		return err
	}
	doc, err := htmldoc.FromFile(file)
	if err != nil {
		return err
	}

	names := cat.Names()
	if opts.target != "" {
		if _, err := cat.Get(opts.target); err != nil {
			return err
		}
		names = []string{opts.target}
	}

	loc := locator.New(log)
	rows := make([]row, 0, len(names))
	for _, name := range names {
		res := loc.Locate(ctx, doc, cat.MustGet(name))
		r := row{Target: name, Found: res.Found, Index: res.Index, Strategy: res.Strategy, Expression: res.Expression}
		if el, ok := res.Element.(*htmldoc.Element); ok {
			r.Element = el.String()
		}
		rows = append(rows, r)
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tFOUND\tSTRATEGY\tINDEX\tELEMENT")
	for _, r := range rows {
		mark := "❌"
		if r.Found {
			mark = "✅"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Target, mark, r.Strategy, r.Index, r.Element)
	}
	return w.Flush()
}
