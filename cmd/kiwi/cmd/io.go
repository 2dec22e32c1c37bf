package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/manifest"
)

// readInput reads the single optional positional argument, or stdin when it
// is absent or "-".
func readInput(cmd *Command, args []string) (name string, data []byte, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		return "-", data, err
	}
	data, err = os.ReadFile(args[0])
	return args[0], data, err
}

// writeOutput writes data to the --outfile path, or stdout.
func writeOutput(cmd *Command, data []byte) error {
	out := flagOutFile.String(cmd)
	if out == "" || out == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	cmd.log.Debug("wrote output", "path", out, "bytes", len(data))
	return nil
}

// loadSchema reads the schema at path, binary or manifest by extension.
func loadSchema(cmd *Command, path string) (*kiwi.Schema, error) {
	if path == "" {
		return nil, fmt.Errorf("%w --%s", errMissingFlag, flagSchema)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := manifest.LoadSchema(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cmd.log.Debug("loaded schema",
		"path", path,
		"definitions", len(s.Definitions()),
		"fingerprint", s.Fingerprint().String())
	return s, nil
}

func requireType(cmd *Command) (string, error) {
	name := flagType.String(cmd)
	if name == "" {
		return "", fmt.Errorf("%w --%s", errMissingFlag, flagType)
	}
	return name, nil
}
