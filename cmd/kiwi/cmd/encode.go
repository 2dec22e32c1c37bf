package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/codec"
	"github.com/reoring/kiwi/transcode"
)

func newEncodeCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode --schema S --type T [--from json|yaml|cbor] [input]",
		Short: "encode a document as a kiwi binary value",
		Long: `Encode reads a JSON, YAML or CBOR document from input, or stdin, and
writes its kiwi encoding as the given type.

The input format defaults to the input file extension, then JSON.

--max-depth counts struct and message levels. Every such level is an
object in the input document, possibly inside an array, so the document
itself may nest objects and arrays up to twice that deep.
`,
		Args: cobra.MaximumNArgs(1),
		RunE: mkRunE(c, runEncode),
	}
	addSchemaFlags(cmd.Flags(), true)
	cmd.Flags().String(string(flagFrom), "", "input format: json, yaml or cbor")
	addOutFlags(cmd.Flags())
	return cmd
}

func runEncode(cmd *Command, args []string) error {
	s, err := loadSchema(cmd, flagSchema.String(cmd))
	if err != nil {
		return err
	}
	typ, err := requireType(cmd)
	if err != nil {
		return err
	}
	name, data, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	from, err := inputFormat(flagFrom.String(cmd), name)
	if err != nil {
		return err
	}
	depth := flagMaxDepth.Int(cmd)
	v, err := transcode.Parse(from, data, transcode.Opt{MaxDepth: documentDepth(depth)})
	if err != nil {
		return err
	}
	c, err := codec.Compile(s, kiwi.Opt{MaxDepth: depth})
	if err != nil {
		return err
	}
	out, err := kiwi.EncodeAs(s, c, typ, v)
	if err != nil {
		return err
	}
	cmd.log.Debug("encoded", "type", typ, "format", from, "in", len(data), "out", len(out))
	return writeOutput(cmd, out)
}

// inputFormat picks the --from format, then the extension of name, then
// JSON.
func inputFormat(flag, name string) (transcode.Format, error) {
	if flag != "" {
		return transcode.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(name), "."); ext != "" {
		if f, err := transcode.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return transcode.FormatJSON, nil
}

// documentDepth converts a kiwi nesting limit into a document nesting limit:
// each struct or message level is an object plus at most one array.
func documentDepth(kiwiDepth int) int {
	if kiwiDepth <= 0 {
		return 0
	}
	return 2 * kiwiDepth
}
