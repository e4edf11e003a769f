package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suzukikyou/obfuscator/internal/obfuscate"
)

func newEncodeCommand(codec *obfuscate.Codec) *cobra.Command {
	var flag variantFlag
	command := &cobra.Command{
		Use:   "encode TEXT",
		Short: "Obfuscate text into a salted token",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			variant, err := flag.variant()
			if err != nil {
				return err
			}
			token, err := codec.Encode(arguments[0], variant)
			if err != nil {
				return fmt.Errorf("unable to encode: %w", err)
			}
			fmt.Fprintln(command.OutOrStdout(), token)
			return nil
		},
	}
	flag.register(command)
	return command
}

func newDecodeCommand(codec *obfuscate.Codec) *cobra.Command {
	var flag variantFlag
	command := &cobra.Command{
		Use:   "decode TOKEN",
		Short: "Recover the text behind a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			variant, err := flag.variant()
			if err != nil {
				return err
			}
			text, err := codec.Decode(arguments[0], variant)
			if err != nil {
				return fmt.Errorf("unable to decode token: %w", err)
			}
			fmt.Fprintln(command.OutOrStdout(), text)
			return nil
		},
	}
	flag.register(command)
	return command
}
