package gen

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/go-quicktest/qt"

	"github.com/reoring/kiwi"
)

func shapeDefs() []*kiwi.Definition {
	return []*kiwi.Definition{
		kiwi.NewDefinition("Color", kiwi.KindEnum, []kiwi.Field{{Name: "RED", Value: 1}, {Name: "GREEN", Value: 2}}),
		kiwi.NewDefinition("Point", kiwi.KindStruct, []kiwi.Field{{Name: "x", Type: kiwi.TypeFloat}, {Name: "y", Type: kiwi.TypeFloat}}),
		kiwi.NewDefinition("shape", kiwi.KindMessage, []kiwi.Field{
			{Name: "color", Type: 0, Value: 1},
			{Name: "points", Type: 1, IsArray: true, Value: 2},
			{Name: "children", Type: 2, IsArray: true, Value: 3},
			{Name: "data", Type: kiwi.TypeByte, IsArray: true, Value: 4},
			{Name: "label", Type: kiwi.TypeString, Value: 5},
		}),
		kiwi.NewDefinition("Empty", kiwi.KindStruct, nil),
		kiwi.NewDefinition("Nothing", kiwi.KindMessage, nil),
	}
}

func parse(t *testing.T, src []byte) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "out.go", src, parser.ParseComments)
	qt.Assert(t, qt.IsNil(err), qt.Commentf("%s", src))
	return f
}

func declared(f *ast.File) map[string]bool {
	names := map[string]bool{}
	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			names[d.Name.Name] = true
		case *ast.GenDecl:
			for _, s := range d.Specs {
				if vs, ok := s.(*ast.ValueSpec); ok {
					for _, n := range vs.Names {
						names[n.Name] = true
					}
				}
			}
		}
	}
	return names
}

func TestRender(t *testing.T) {
	out, err := Render("shapes", shapeDefs())
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.IsTrue(strings.HasPrefix(string(out), Header+"\n")))

	f := parse(t, out)
	qt.Check(t, qt.Equals(f.Name.Name, "shapes"))
	names := declared(f)
	for _, n := range []string{
		"DecodeColor", "EncodeColor", "ColorValues", "ColorNames",
		"DecodePoint", "EncodePoint",
		"DecodeShape", "EncodeShape",
		"DecodeEmpty", "EncodeEmpty",
		"DecodeNothing", "EncodeNothing",
	} {
		qt.Check(t, qt.IsTrue(names[n]), qt.Commentf("missing %s", n))
	}

	src := string(out)
	qt.Check(t, qt.StringContains(src, `kiwiDecodeField(bb, out, "points", kiwiArrayOf(DecodePoint, 2))`))
	qt.Check(t, qt.StringContains(src, `kiwiEncodeOptional(rec, bb, 3, "children", kiwiArrayTo(EncodeShape))`))
	qt.Check(t, qt.StringContains(src, `kiwiDecodeField(bb, out, "data", kiwiReadBytes)`))
	qt.Check(t, qt.StringContains(src, `kiwiEncodeRequired(rec, bb, "Point", "y", kiwiWriteFloat)`))
	qt.Check(t, qt.StringContains(src, `kiwiUnknownTag(start, tag, "shape")`))
	qt.Check(t, qt.StringContains(src, `"GREEN": 2,`))

	formatted, err := format.Source(out)
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(string(formatted), src))
}

func TestRenderDeterministic(t *testing.T) {
	a, err := Render("shapes", shapeDefs())
	qt.Assert(t, qt.IsNil(err))
	b, err := Render("shapes", shapeDefs())
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.DeepEquals(a, b))
}

func TestRenderErrors(t *testing.T) {
	_, err := Render("not a package", shapeDefs())
	qt.Check(t, qt.ErrorMatches(err, `gen: invalid package name .*`))

	_, err = Render("p", []*kiwi.Definition{
		kiwi.NewDefinition("a", kiwi.KindStruct, nil),
		kiwi.NewDefinition("A", kiwi.KindStruct, nil),
	})
	qt.Check(t, qt.ErrorMatches(err, `gen: definitions "a" and "A" both map to A`))

	_, err = Render("p", []*kiwi.Definition{
		kiwi.NewDefinition("A", kiwi.KindStruct, []kiwi.Field{{Name: "x", Type: 4}}),
	})
	qt.Check(t, qt.ErrorMatches(err, `gen: A.x: type 4 has no definition`))

	_, err = Render("p", []*kiwi.Definition{kiwi.NewDefinition("A", kiwi.Kind(9), nil)})
	qt.Check(t, qt.ErrorMatches(err, `gen: definition "A" has kind 9`))
}

func TestExportName(t *testing.T) {
	for in, want := range map[string]string{
		"user":     "User",
		"Point":    "Point",
		"my-type":  "My_type",
		"9lives":   "X9lives",
		"_private": "Xprivate",
		"":         "X",
	} {
		qt.Check(t, qt.Equals(exportName(in), want), qt.Commentf("%q", in))
	}
}
