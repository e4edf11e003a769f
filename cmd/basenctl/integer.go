package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
)

func newIntCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "int",
		Short: "Convert arbitrary-precision integers to and from base-N",
	}
	command.AddCommand(newIntEncodeCommand(), newIntDecodeCommand())
	return command
}

func newIntEncodeCommand() *cobra.Command {
	var flag variantFlag
	command := &cobra.Command{
		Use:     "encode [--] INTEGER",
		Short:   "Render a decimal integer in the chosen alphabet",
		Example: "  basenctl int encode 12345\n  basenctl int encode --variant 100 -- -100",
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			alphabet, err := flag.alphabet()
			if err != nil {
				return err
			}
			n, ok := new(big.Int).SetString(arguments[0], 10)
			if !ok {
				return fmt.Errorf("invalid decimal integer %q", arguments[0])
			}
			fmt.Fprintln(command.OutOrStdout(), alphabet.Encode(n))
			return nil
		},
	}
	flag.register(command)
	return command
}

func newIntDecodeCommand() *cobra.Command {
	var flag variantFlag
	command := &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Print the decimal value of a base-N token",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			alphabet, err := flag.alphabet()
			if err != nil {
				return err
			}
			n, err := alphabet.Decode(arguments[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), n.String())
			return nil
		},
	}
	flag.register(command)
	return command
}
