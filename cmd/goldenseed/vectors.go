package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-goldenseed"
)

func newVectorsCommand(g *globalOptions) *cobra.Command {
	var positions []string

	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Print a known-answer vector suite as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, seed, err := g.resolve()
			if err != nil {
				return err
			}

			parsed := make([]uint64, 0, len(positions))
			for _, s := range positions {
				pos, err := strconv.ParseUint(s, 0, 64)
				if err != nil {
					return fmt.Errorf("invalid position %q: %w", s, err)
				}
				parsed = append(parsed, pos)
			}

			suite, err := goldenseed.GenerateTestVectors(p, seed, parsed)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(suite)
		},
	}
	cmd.Flags().StringSliceVar(&positions, "positions", []string{"0", "1", "2", "3"}, "Block positions (decimal or 0x hex)")
	return cmd
}

func newVerifyCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Check a known-answer vector suite exactly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := goldenseed.LoadTestVectors(args[0])
			if err != nil {
				return err
			}
			if err := suite.Verify(); err != nil {
				return err
			}
			g.log.WithField("file", args[0]).Debug("vectors verified")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d vectors OK (%s)\n", len(suite.Vectors), suite.Version)
			return err
		},
	}
}
