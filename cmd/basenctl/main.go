// Command basenctl encodes and decodes obfuscated tokens and base-N integers
// from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suzukikyou/obfuscator/internal/basen"
	"github.com/suzukikyou/obfuscator/internal/obfuscate"
)

// variantFlag holds the value of a --variant flag.
type variantFlag struct {
	name string
}

func (f *variantFlag) register(command *cobra.Command) {
	flags := command.Flags()
	flags.SortFlags = false
	flags.StringVarP(&f.name, "variant", "v", "36", "Alphabet variant (36 or 100)")
}

func (f *variantFlag) variant() (obfuscate.Variant, error) {
	return obfuscate.ParseVariant(f.name)
}

func (f *variantFlag) alphabet() (*basen.Alphabet, error) {
	v, err := f.variant()
	if err != nil {
		return nil, err
	}
	return v.Alphabet()
}

func newRootCommand(codec *obfuscate.Codec) *cobra.Command {
	root := &cobra.Command{
		Use:           "basenctl",
		Short:         "Obfuscate text and integers with the base36/base100 alphabets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newEncodeCommand(codec),
		newDecodeCommand(codec),
		newIntCommand(),
	)
	return root
}

func main() {
	if err := newRootCommand(obfuscate.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
