package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/kiwi/manifest"
)

func newSchemaCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "compile, inspect and fingerprint schemas",
	}
	cmd.AddCommand(
		newSchemaCompileCmd(c),
		newSchemaDumpCmd(c),
		newSchemaFingerprintCmd(c),
	)
	return cmd
}

func newSchemaCompileCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile manifest",
		Short: "write the binary form of a schema",
		Long: `Compile validates a schema, usually a manifest, and writes its binary
form.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			s, err := loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, s.ToBinary())
		}),
	}
	addOutFlags(cmd.Flags())
	return cmd
}

func newSchemaDumpCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump schema",
		Short: "print a schema as a manifest",
		Args:  cobra.ExactArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			s, err := loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			m := manifest.FromSchema(s)
			var out []byte
			switch to := flagTo.String(cmd); to {
			case "yaml", "yml":
				out, err = m.YAML()
			case "json":
				out, err = m.JSON()
				out = append(out, '\n')
			default:
				return fmt.Errorf("unknown manifest format %q", to)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, out)
		}),
	}
	cmd.Flags().String(string(flagTo), "yaml", "manifest format: yaml or json")
	addOutFlags(cmd.Flags())
	return cmd
}

func newSchemaFingerprintCmd(c *Command) *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint schema",
		Short: "print the BLAKE3 fingerprint of a schema",
		Long: `Fingerprint prints the hex BLAKE3-256 hash of the schema's binary form.
A manifest and the binary schema compiled from it share a fingerprint.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, func(cmd *Command, args []string) error {
			s, err := loadSchema(cmd, args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.Fingerprint())
			return err
		}),
	}
}
