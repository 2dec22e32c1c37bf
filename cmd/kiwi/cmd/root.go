// Package cmd implements the kiwi command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// Command is the active cobra command plus state shared by every
// subcommand.
type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command
	log  *slog.Logger
}

func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "kiwi",
		Short: "kiwi encodes and decodes schema-driven binary messages.",
		Long: `kiwi converts between JSON, YAML or CBOR documents and the compact kiwi
binary encoding, and manages the schemas that drive it.

A schema is read either from its binary form or from a manifest with a
.yaml, .yml or .json extension listing the definitions:

	definitions:
	  - name: Point
	    kind: struct
	    fields:
	      - {name: x, type: float}
	      - {name: y, type: float}
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	c := &Command{Command: cmd, root: cmd}
	cmd.PersistentPreRun = func(active *cobra.Command, _ []string) {
		c.Command = active
		level := slog.LevelWarn
		if flagVerbose.Bool(c) {
			level = slog.LevelDebug
		}
		c.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}
	c.log = slog.New(slog.NewTextHandler(io.Discard, nil))

	addGlobalFlags(cmd.PersistentFlags())

	for _, sub := range []*cobra.Command{
		newEncodeCmd(c),
		newDecodeCmd(c),
		newSchemaCmd(c),
		newGenCmd(c),
	} {
		cmd.AddCommand(sub)
	}
	return c
}

// Main runs the command line with os.Args and returns the exit code.
func Main() int {
	if err := mainErr(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func mainErr(ctx context.Context, args []string) error {
	c := newRootCmd()
	c.root.SetArgs(args)
	return c.root.ExecuteContext(ctx)
}

var errMissingFlag = errors.New("missing required flag")
