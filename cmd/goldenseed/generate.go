package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opd-ai/go-goldenseed"
)

type generateOptions struct {
	blocks  uint64
	start   uint64
	format  string
	workers int
	output  string
}

func newGenerateCommand(g *globalOptions) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write stream blocks as raw bytes or hex lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, g, opts)
		},
	}

	flags := cmd.Flags()
	flags.Uint64Var(&opts.blocks, "blocks", 1, "Number of 16-byte blocks")
	flags.Uint64Var(&opts.start, "start", 0, "Position of the first block")
	flags.StringVar(&opts.format, "format", "raw", "Output format: raw or hex")
	flags.IntVar(&opts.workers, "workers", 1, "Parallel workers; 0 uses every CPU")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

func runGenerate(cmd *cobra.Command, g *globalOptions, opts generateOptions) error {
	if opts.format != "raw" && opts.format != "hex" {
		return fmt.Errorf("unknown format %q (use raw or hex)", opts.format)
	}
	p, seed, err := g.resolve()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)

	begin := time.Now()
	if opts.format == "raw" && opts.workers == 1 {
		// Stream without materializing the whole range.
		gen, err := goldenseed.NewWithSeed(p, seed)
		if err != nil {
			return err
		}
		gen.Seek(opts.start)
		if _, err := gen.WriteBlocks(w, opts.blocks); err != nil {
			return err
		}
	} else {
		data, err := goldenseed.GenerateParallel(cmd.Context(), p, seed, opts.start, opts.blocks, opts.workers)
		if err != nil {
			return err
		}
		if err := writeBlocks(w, data, opts.format); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	g.log.WithFields(logrus.Fields{
		"protocol": p.ID,
		"seed":     seed.Fingerprint()[:16],
		"start":    opts.start,
		"blocks":   opts.blocks,
		"elapsed":  time.Since(begin).String(),
	}).Debug("stream generated")
	return nil
}

func writeBlocks(w io.Writer, data []byte, format string) error {
	if format == "raw" {
		_, err := w.Write(data)
		return err
	}
	for off := 0; off < len(data); off += goldenseed.BlockSize {
		if _, err := fmt.Fprintln(w, hex.EncodeToString(data[off:off+goldenseed.BlockSize])); err != nil {
			return err
		}
	}
	return nil
}
