package cmd

import (
	"github.com/spf13/cobra"

	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/codec"
	"github.com/reoring/kiwi/transcode"
)

func newDecodeCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode --schema S --type T [--to json|yaml|cbor] [input]",
		Short: "decode a kiwi binary value into a document",
		Long: `Decode reads a kiwi binary value of the given type from input, or stdin,
and writes it as JSON, YAML or CBOR. Bytes after the value are ignored.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: mkRunE(c, runDecode),
	}
	addSchemaFlags(cmd.Flags(), true)
	cmd.Flags().String(string(flagTo), string(transcode.FormatJSON), "output format: json, yaml or cbor")
	addOutFlags(cmd.Flags())
	return cmd
}

func runDecode(cmd *Command, args []string) error {
	s, err := loadSchema(cmd, flagSchema.String(cmd))
	if err != nil {
		return err
	}
	typ, err := requireType(cmd)
	if err != nil {
		return err
	}
	to, err := transcode.ParseFormat(flagTo.String(cmd))
	if err != nil {
		return err
	}
	_, data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	c, err := codec.Compile(s, kiwi.Opt{MaxDepth: flagMaxDepth.Int(cmd)})
	if err != nil {
		return err
	}
	v, err := kiwi.DecodeAs(s, c, typ, data)
	if err != nil {
		return err
	}
	out, err := transcode.Marshal(to, v)
	if err != nil {
		return err
	}
	if to == transcode.FormatJSON {
		out = append(out, '\n')
	}
	cmd.log.Debug("decoded", "type", typ, "format", to, "in", len(data), "out", len(out))
	return writeOutput(cmd, out)
}
