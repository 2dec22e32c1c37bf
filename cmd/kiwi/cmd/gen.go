package cmd

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reoring/kiwi/internal/gen"
)

func newGenCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen --schema S [--package P] [-o out.go]",
		Short: "generate Go encoders and decoders for a schema",
		Long: `Gen writes Go source with an EncodeName and DecodeName function for every
definition of the schema, plus lookup tables for enums.

Without --package, the package clause of existing Go files in the output
directory is used, then "main".
`,
		Args: cobra.NoArgs,
		RunE: mkRunE(c, runGen),
	}
	addSchemaFlags(cmd.Flags(), false)
	cmd.Flags().StringP(string(flagPackage), "p", "", "package name of the generated file")
	addOutFlags(cmd.Flags())
	return cmd
}

func runGen(cmd *Command, args []string) error {
	s, err := loadSchema(cmd, flagSchema.String(cmd))
	if err != nil {
		return err
	}
	pkg := flagPackage.String(cmd)
	if pkg == "" {
		dir := "."
		if out := flagOutFile.String(cmd); out != "" && out != "-" {
			dir = filepath.Dir(out)
		}
		pkg = detectPackageName(dir)
		cmd.log.Debug("detected package", "dir", dir, "package", pkg)
	}
	code, err := gen.Render(pkg, s.Definitions())
	if err != nil {
		return err
	}
	return writeOutput(cmd, code)
}

// detectPackageName returns the package clause of the first non-test Go
// file in dir, or "main".
func detectPackageName(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "main"
	}
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.PackageClauseOnly)
		if err == nil {
			return f.Name.Name
		}
	}
	return "main"
}
