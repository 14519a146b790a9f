package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opd-ai/go-goldenseed"
)

type analyzeOptions struct {
	json       bool
	shards     int
	minQuality string
}

func newAnalyzeCommand(g *globalOptions) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze [FILE|-]",
		Short: "Run the statistical test battery over a byte stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, g, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.json, "json", false, "Print the result as JSON")
	flags.IntVar(&opts.shards, "shards", 0, "Histogram shards; 0 uses every CPU")
	flags.StringVar(&opts.minQuality, "min-quality", "", "Fail unless the quality is at least this level")
	return cmd
}

func runAnalyze(cmd *cobra.Command, g *globalOptions, opts analyzeOptions, args []string) error {
	var minQuality goldenseed.Quality
	if opts.minQuality != "" {
		q, err := goldenseed.ParseQuality(opts.minQuality)
		if err != nil {
			return err
		}
		minQuality = q
	}

	buf, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	result, err := goldenseed.ComprehensiveAnalysisParallel(cmd.Context(), buf, opts.shards)
	if err != nil {
		return err
	}
	g.log.WithFields(logrus.Fields{
		"bytes":   result.Length(),
		"quality": result.Quality().String(),
	}).Debug("analysis complete")

	out := cmd.OutOrStdout()
	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else if err := printAnalysis(out, result); err != nil {
		return err
	}

	if result.Quality() < minQuality {
		return fmt.Errorf("quality %s is below %s", result.Quality(), minQuality)
	}
	return nil
}

func printAnalysis(out io.Writer, r goldenseed.AnalysisResult) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Bytes:\t%d\n", r.Length())
	fmt.Fprintf(tw, "Quality:\t%s\n", r.Quality())
	fmt.Fprintf(tw, "Passes all:\t%t\n\n", r.PassesAll())
	fmt.Fprintln(tw, "METRIC\tVALUE\tTHRESHOLD\tVERDICT")
	for _, m := range r.Metrics() {
		value := fmt.Sprintf("%.6f", m.Value)
		if m.Verdict == goldenseed.VerdictInsufficientData {
			value = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, value, m.Threshold, m.Verdict)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, rec := range r.Recommendations() {
		if _, err := fmt.Fprintf(out, "- %s\n", rec); err != nil {
			return err
		}
	}
	return nil
}

func newBiasCommand(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "bias [FILE|-]",
		Short: "Scan a byte stream for obvious defects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			report := goldenseed.ValidateBias(buf)
			g.log.WithFields(logrus.Fields{
				"bytes":    len(buf),
				"has_bias": report.HasBias,
			}).Debug("bias scan complete")

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			if !report.HasBias {
				_, err := fmt.Fprintln(out, "no bias detected")
				return err
			}
			_, err = fmt.Fprintf(out, "bias detected: %s\n", strings.Join(report.Reasons, ", "))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
