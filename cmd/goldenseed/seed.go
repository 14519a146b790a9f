package main

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/go-goldenseed"
)

func newSeedCommand(g *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed utilities",
	}
	cmd.AddCommand(
		newSeedFingerprintCommand(g),
		newSeedDeriveCommand(),
		newSeedRandomCommand(),
	)
	return cmd
}

func newSeedFingerprintCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint [HEX]",
		Short: "Print the BLAKE2b fingerprint of a seed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				seed goldenseed.Seed
				err  error
			)
			if len(args) == 1 {
				seed, err = goldenseed.ParseSeed(args[0])
			} else {
				_, seed, err = g.resolve()
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), seed.Fingerprint())
			return err
		},
	}
}

func newSeedDeriveCommand() *cobra.Command {
	var passphrase, salt string

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derive a seed from a passphrase with Argon2id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return errors.New("--passphrase is required")
			}
			seed := goldenseed.DeriveSeed([]byte(passphrase), []byte(salt))
			_, err := fmt.Fprintln(cmd.OutOrStdout(), seed)
			return err
		},
	}
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase naming the stream")
	cmd.Flags().StringVar(&salt, "salt", "goldenseed", "Salt")
	return cmd
}

func newSeedRandomCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Print a seed drawn from the operating system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed goldenseed.Seed
			if _, err := rand.Read(seed[:]); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), seed)
			return err
		},
	}
}
