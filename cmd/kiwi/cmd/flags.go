package cmd

import (
	"github.com/spf13/pflag"
)

type flagName string

const (
	flagFrom     flagName = "from"
	flagMaxDepth flagName = "max-depth"
	flagOutFile  flagName = "outfile"
	flagPackage  flagName = "package"
	flagSchema   flagName = "schema"
	flagTo       flagName = "to"
	flagType     flagName = "type"
	flagVerbose  flagName = "verbose"
)

func addGlobalFlags(f *pflag.FlagSet) {
	f.BoolP(string(flagVerbose), "v", false, "log progress to stderr")
}

func addOutFlags(f *pflag.FlagSet) {
	f.StringP(string(flagOutFile), "o", "", "output file, stdout when empty or -")
}

func addSchemaFlags(f *pflag.FlagSet, withType bool) {
	f.StringP(string(flagSchema), "s", "", "binary schema or .yaml/.yml/.json manifest")
	if withType {
		f.StringP(string(flagType), "t", "", "definition or primitive type name")
		f.Int(string(flagMaxDepth), 0, "maximum struct and message nesting, 0 for unlimited")
	}
}

func (f flagName) Bool(cmd *Command) bool {
	v, _ := cmd.Flags().GetBool(string(f))
	return v
}

func (f flagName) String(cmd *Command) string {
	v, _ := cmd.Flags().GetString(string(f))
	return v
}

func (f flagName) Int(cmd *Command) int {
	v, _ := cmd.Flags().GetInt(string(f))
	return v
}
