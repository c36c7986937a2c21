package loader

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/soagen/pkg/schema"
)

func TestLoadShapes(t *testing.T) {
	res, err := Load(context.Background(), "../../examples/shapes", []string{"Point", "Body", "tick"})
	require.NoError(t, err)
	require.Equal(t, "shapes", res.Package)
	require.Equal(t, "github.com/bisegni/soagen/examples/shapes", res.Path)
	require.Len(t, res.Records, 3)

	for _, rec := range res.Records {
		require.True(t, rec.Declared, rec.Name)
		require.NotEmpty(t, rec.Pos, rec.Name)
		require.NoError(t, rec.Validate(), rec.Name)
	}

	want := []schema.Field{
		{Name: "ID", Type: "int64"},
		{Name: "Pos", Type: "[2]float64"},
		{Name: "Mass", Type: "float64"},
		{Name: "Name", Type: "string"},
		{Name: "Kind", Type: "Kind"},
	}
	if diff := cmp.Diff(want, res.Records[1].Fields); diff != "" {
		t.Errorf("Body fields (-want +got):\n%s", diff)
	}

	tick := res.Records[2]
	require.Equal(t, schema.Internal, tick.Visibility())
	require.Equal(t, []schema.Field{{Name: "at", Type: "time.Time"}, {Name: "frame", Type: "int"}}, tick.Fields)
	require.Equal(t, []schema.Import{{Path: "time"}}, tick.Imports)
}

func TestLoadImportClash(t *testing.T) {
	res, err := Load(context.Background(), "testdata/fixtures", []string{"Pages"})
	require.NoError(t, err)

	rec := res.Records[0]
	require.Equal(t, []schema.Field{
		{Name: "Text", Type: "*template.Template"},
		{Name: "HTML", Type: "*template2.Template"},
		{Name: "Tags", Type: "map[string][]byte"},
	}, rec.Fields)
	require.Equal(t, []schema.Import{
		{Path: "text/template"},
		{Alias: "template2", Path: "html/template"},
	}, rec.Imports)
	require.NoError(t, rec.Validate())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want error
	}{
		{"Kind", "../../examples/shapes", ErrNotStruct},
		{"Missing", "../../examples/shapes", ErrTypeNotFound},
		{"Rock", "../../examples/shapes", ErrTypeNotFound},
		{"Box", "testdata/fixtures", ErrGenericRecord},
		{"Wrapped", "testdata/fixtures", ErrEmbeddedField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.dir, []string{tt.name})
			require.ErrorIs(t, err, tt.want)
		})
	}
}
