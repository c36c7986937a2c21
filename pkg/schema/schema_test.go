package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	src := `
package shapes

import "time"
import pb "example.com/proto/v1"

// A point in the plane.
record Point { x int; y int }

record event {
	at    time.Time
	tags  []string
	attrs map[string]*pb.Attr
	ring  [4]byte
	meta  pb.Box[int, string]
}
`
	s, err := Parse("shapes.soa", src)
	require.NoError(t, err)
	require.Equal(t, "shapes", s.Package)
	require.Equal(t, []Import{{Path: "time"}, {Alias: "pb", Path: "example.com/proto/v1"}}, s.Imports)
	require.Len(t, s.Records, 2)

	point := s.Records[0]
	require.Equal(t, "Point", point.Name)
	require.Equal(t, Public, point.Visibility())
	require.Equal(t, []Field{{Name: "X", Type: "int"}, {Name: "Y", Type: "int"}}, point.Fields)
	require.Contains(t, point.Pos, "shapes.soa:8")

	event := s.Records[1]
	require.Equal(t, Internal, event.Visibility())
	require.Equal(t, []Field{
		{Name: "at", Type: "time.Time"},
		{Name: "tags", Type: "[]string"},
		{Name: "attrs", Type: "map[string]*pb.Attr"},
		{Name: "ring", Type: "[4]byte"},
		{Name: "meta", Type: "pb.Box[int, string]"},
	}, event.Fields)

	require.NoError(t, s.Validate())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", "   "},
		{"missing brace", "record P { x int"},
		{"missing type", "record P { x }"},
		{"bad keyword", "struct P { x int }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("", tt.input)
			require.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   error
	}{
		{
			name:   "valid",
			record: Record{Name: "P", Fields: []Field{{Name: "X", Type: "int"}}},
		},
		{
			name:   "no fields",
			record: Record{Name: "P"},
			want:   ErrNoFields,
		},
		{
			name:   "duplicate",
			record: Record{Name: "P", Fields: []Field{{Name: "X", Type: "int"}, {Name: "X", Type: "int"}}},
			want:   ErrDuplicateField,
		},
		{
			name:   "derived cursor collision",
			record: Record{Name: "P", Fields: []Field{{Name: "Pos", Type: "int"}, {Name: "pos", Type: "int"}}},
			want:   ErrDuplicateField,
		},
		{
			name:   "reserved method name",
			record: Record{Name: "P", Fields: []Field{{Name: "Len", Type: "int"}}},
			want:   ErrReservedName,
		},
		{
			name:   "invalid identifier",
			record: Record{Name: "P", Fields: []Field{{Name: "2x", Type: "int"}}},
			want:   ErrInvalidIdent,
		},
		{
			name:   "invalid record name",
			record: Record{Name: "func", Fields: []Field{{Name: "X", Type: "int"}}},
			want:   ErrInvalidIdent,
		},
		{
			name:   "invalid type",
			record: Record{Name: "P", Fields: []Field{{Name: "X", Type: "[]"}}},
			want:   ErrInvalidType,
		},
		{
			name:   "unknown package",
			record: Record{Name: "P", Fields: []Field{{Name: "At", Type: "time.Time"}}},
			want:   ErrUnknownPackage,
		},
		{
			name: "imported package",
			record: Record{
				Name:    "P",
				Fields:  []Field{{Name: "At", Type: "[]*time.Time"}},
				Imports: []Import{{Path: "time"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestDuplicateRecord(t *testing.T) {
	s, err := Parse("", "record P { x int } record P { y int }")
	require.NoError(t, err)
	require.ErrorIs(t, s.Validate(), ErrDuplicateRecord)
}

func TestNames(t *testing.T) {
	public := &Record{Name: "Point"}
	require.Equal(t, Names{
		Record:     "Point",
		Vec:        "PointVec",
		Slice:      "PointSlice",
		SliceMut:   "PointSliceMut",
		Ref:        "PointRef",
		RefMut:     "PointRefMut",
		Iter:       "PointIter",
		IterMut:    "PointIterMut",
		NewVec:     "NewPointVec",
		FromZip:    "PointRefFromZip",
		FromZipMut: "PointRefMutFromZip",
	}, public.Names())

	internal := &Record{Name: "tick"}
	require.Equal(t, "newTickVec", internal.Names().NewVec)
	require.Equal(t, "tickVec", internal.Names().Vec)
}

func TestCursorNames(t *testing.T) {
	tests := map[string]string{
		"X":     "x",
		"PosX":  "posX",
		"Type":  "typeCol",
		"Lease": "leaseCol",
		"True":  "trueCol",
		"Int":   "intCol",
		"v":     "v",
	}
	for field, want := range tests {
		require.Equal(t, want, Field{Name: field}.Cursor(), field)
	}
}

func TestRecordCursorAvoidsGeneratedNames(t *testing.T) {
	rec := &Record{Name: "point", Fields: []Field{
		{Name: "pointRef", Type: "int"},
		{Name: "PointIterMut", Type: "int"},
		{Name: "y", Type: "int"},
	}}
	require.Equal(t, "pointRefCol", rec.Cursor(rec.Fields[0]))
	require.Equal(t, "pointIterMutCol", rec.Cursor(rec.Fields[1]))
	require.Equal(t, "y", rec.Cursor(rec.Fields[2]))
	require.NoError(t, rec.Validate())

	// Exported records name their types in upper case, so nothing clashes.
	public := &Record{Name: "Point", Fields: []Field{{Name: "PointRef", Type: "int"}}}
	require.Equal(t, "pointRef", public.Cursor(public.Fields[0]))

	clash := &Record{Name: "point", Fields: []Field{
		{Name: "pointRef", Type: "int"},
		{Name: "pointRefCol", Type: "int"},
	}}
	require.ErrorIs(t, clash.Validate(), ErrDuplicateField)
}
