package manifest_test

import (
	"testing"

	"github.com/go-quicktest/qt"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/reoring/kiwi"
	"github.com/reoring/kiwi/manifest"
)

const shapes = `
definitions:
  - name: Color
    kind: enum
    fields:
      - {name: RED, value: 1}
      - {name: GREEN, value: 2}
  - name: Point
    kind: struct
    fields:
      - {name: x, type: float}
      - {name: y, type: float}
  - name: Shape
    kind: message
    fields:
      - {name: color, type: Color, value: 1}
      - {name: points, type: "Point[]", value: 2}
      - {name: children, type: "Shape[]", value: 3}
      - {name: data, type: "byte[]", value: 4}
`

func shapeDefinitions() []*kiwi.Definition {
	return []*kiwi.Definition{
		kiwi.NewDefinition("Color", kiwi.KindEnum, []kiwi.Field{{Name: "RED", Value: 1}, {Name: "GREEN", Value: 2}}),
		kiwi.NewDefinition("Point", kiwi.KindStruct, []kiwi.Field{{Name: "x", Type: kiwi.TypeFloat}, {Name: "y", Type: kiwi.TypeFloat}}),
		kiwi.NewDefinition("Shape", kiwi.KindMessage, []kiwi.Field{
			{Name: "color", Type: 0, Value: 1},
			{Name: "points", Type: 1, IsArray: true, Value: 2},
			{Name: "children", Type: 2, IsArray: true, Value: 3},
			{Name: "data", Type: kiwi.TypeByte, IsArray: true, Value: 4},
		}),
	}
}

func TestParseResolve(t *testing.T) {
	m, err := manifest.Parse([]byte(shapes))
	qt.Assert(t, qt.IsNil(err))
	s, err := m.Schema()
	qt.Assert(t, qt.IsNil(err))

	want := kiwi.MustSchema(shapeDefinitions()...)
	if diff := cmp.Diff(want.Definitions(), s.Definitions(), cmpopts.IgnoreUnexported(kiwi.Definition{})); diff != "" {
		t.Errorf("definitions differ (-want +got):\n%s", diff)
	}
	qt.Check(t, qt.Equals(s.Fingerprint(), want.Fingerprint()))
}

func TestRoundTrip(t *testing.T) {
	s := kiwi.MustSchema(shapeDefinitions()...)
	m := manifest.FromSchema(s)
	qt.Check(t, qt.Equals(m.Definitions[2].Fields[1].Type, "Point[]"))
	qt.Check(t, qt.Equals(m.Definitions[0].Fields[0].Type, ""))

	y, err := m.YAML()
	qt.Assert(t, qt.IsNil(err))
	j, err := m.JSON()
	qt.Assert(t, qt.IsNil(err))
	for name, doc := range map[string][]byte{"yaml": y, "json": j} {
		t.Run(name, func(t *testing.T) {
			back, err := manifest.Parse(doc)
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.DeepEquals(back, m))
			again, err := back.Schema()
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.Equals(again.Fingerprint(), s.Fingerprint()))
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
		path string
	}{{
		name: "unknown kind",
		doc:  "definitions:\n  - {name: A, kind: union}\n",
		want: kiwi.ErrInvalidDefinitionKind,
		path: "/definitions/0/kind",
	}, {
		name: "unknown type",
		doc:  "definitions:\n  - name: A\n    kind: struct\n    fields:\n      - {name: x, type: Missing}\n",
		want: kiwi.ErrInvalidFieldType,
		path: "/definitions/0/fields/0/type",
	}, {
		name: "missing type",
		doc:  "definitions:\n  - name: A\n    kind: message\n    fields:\n      - {name: x, value: 1}\n",
		want: kiwi.ErrInvalidFieldType,
		path: "/definitions/0/fields/0/type",
	}, {
		name: "unknown key",
		doc:  "definitions:\n  - {name: A, kind: struct, extra: 1}\n",
		want: kiwi.ErrMalformedSchema,
	}, {
		name: "zero tag",
		doc:  "definitions:\n  - name: A\n    kind: message\n    fields:\n      - {name: x, type: int}\n",
		want: kiwi.ErrMalformedSchema,
	}}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m, err := manifest.Parse([]byte(test.doc))
			if err == nil {
				_, err = m.Schema()
			}
			qt.Assert(t, qt.ErrorIs(err, test.want))
			iss, ok := kiwi.AsIssue(err)
			qt.Assert(t, qt.IsTrue(ok))
			qt.Check(t, qt.Equals(iss.Path, test.path))
		})
	}
}

func TestLoadSchema(t *testing.T) {
	want := kiwi.MustSchema(shapeDefinitions()...)

	s, err := manifest.LoadSchema("shapes.yaml", []byte(shapes))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(s.Fingerprint(), want.Fingerprint()))

	s, err = manifest.LoadSchema("shapes.bin", want.ToBinary())
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(s.Fingerprint(), want.Fingerprint()))

	_, err = manifest.LoadSchema("shapes.kiwi", []byte(shapes))
	qt.Check(t, qt.ErrorIs(err, kiwi.ErrMalformedSchema))

	qt.Check(t, qt.IsTrue(manifest.IsManifestPath("a/B.JSON")))
	qt.Check(t, qt.IsFalse(manifest.IsManifestPath("schema.bin")))
}

func TestEmptyManifest(t *testing.T) {
	m, err := manifest.Parse(nil)
	qt.Assert(t, qt.IsNil(err))
	s, err := m.Schema()
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.HasLen(s.Definitions(), 0))
}
