package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/soagen/pkg/database"
)

const geoSchema = `package geo

record Point { x int; y int }

record sample {
	v float64
}
`

func writeSchema(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	path := filepath.Join(t.TempDir(), "geo.soa")
	require.NoError(t, os.WriteFile(path, []byte(geoSchema), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	path := writeSchema(t)
	out := filepath.Join(t.TempDir(), "geo_soa.go")

	_, err := run(t, "generate", "-o", out, path, "Point")
	require.NoError(t, err)

	src, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(src), "// Code generated by soagen from geo.soa. DO NOT EDIT.")
	require.Contains(t, string(src), "package geo")
	require.Contains(t, string(src), "func NewPointVec(capacity int) *PointVec")
	require.NotContains(t, string(src), "sampleVec")
}

func TestValidateCommand(t *testing.T) {
	path := writeSchema(t)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	require.Contains(t, out, "Valid schema "+path+" with 2 record(s)")

	bad := filepath.Join(t.TempDir(), "bad.soa")
	require.NoError(t, os.WriteFile(bad, []byte("record P { Len int }"), 0o644))
	out, err = run(t, "validate", bad)
	require.Error(t, err)
	require.Contains(t, out, "Validation failed")
}

func TestLoadCommand(t *testing.T) {
	path := writeSchema(t)
	data := filepath.Join(t.TempDir(), "points.jsonl")
	require.NoError(t, os.WriteFile(data, []byte("{\"x\": 1, \"y\": 10}\n{\"X\": 2, \"Y\": 20}\n"), 0o644))

	out, err := run(t, "load", path, "-r", "Point", data)
	require.NoError(t, err)
	require.Equal(t, "{\"X\":1,\"Y\":10}\n{\"X\":2,\"Y\":20}\n", out)
}

func TestPickRecord(t *testing.T) {
	path := writeSchema(t)

	_, err := pickRecord(path, "")
	require.ErrorContains(t, err, "choose one with --record")

	rec, err := pickRecord(path, "sample")
	require.NoError(t, err)
	require.Equal(t, "sample", rec.Name)

	_, err = pickRecord(path, "Missing")
	require.ErrorIs(t, err, errUnknownRecord)

	_, err = pickRecord("points.json", "Point")
	require.Error(t, err)
}

func TestSession(t *testing.T) {
	path := writeSchema(t)
	var out bytes.Buffer
	s := newSession(context.Background(), &out)

	require.ErrorIs(t, s.exec("records"), errNothingOpen)

	require.NoError(t, s.exec("open "+path))
	require.Contains(t, out.String(), "opened schema "+path)

	out.Reset()
	require.NoError(t, s.exec("records"))
	require.Equal(t, "record Point { X int; Y int }\nrecord sample { v float64 }\n", out.String())

	out.Reset()
	require.NoError(t, s.exec("explain Point"))
	require.Contains(t, out.String(), "Point (public, 2 fields)")
	require.Contains(t, out.String(), "step: gate X, assert Y")
	require.ErrorIs(t, s.exec("explain Missing"), errUnknownRecord)

	out.Reset()
	require.NoError(t, s.exec("generate sample"))
	require.Contains(t, out.String(), "func newSampleVec(capacity int) *sampleVec")

	out.Reset()
	require.NoError(t, s.exec(`load Point [{"x": 1, "y": 10}, {"x": 2, "y": 20}] as pts`))
	require.Equal(t, "loaded pts: 2 rows\n", out.String())

	out.Reset()
	require.NoError(t, s.exec("tables"))
	require.Equal(t, "pts\n", out.String())

	out.Reset()
	require.NoError(t, s.exec("scan pts"))
	require.Equal(t, "{\"X\":1,\"Y\":10}\n{\"X\":2,\"Y\":20}\n", out.String())

	arrowPath := filepath.Join(t.TempDir(), "pts.arrow")
	require.NoError(t, s.exec("arrow pts "+arrowPath))
	require.FileExists(t, arrowPath)

	out.Reset()
	require.NoError(t, s.exec(`load Point {"x": 3} as pts`))
	require.Equal(t, "replaced pts: 1 rows\n", out.String())
	require.ErrorIs(t, s.exec("scan missing"), database.ErrUnknownTable)

	require.Error(t, s.exec("frobnicate"))
	require.NoError(t, s.exec("   "))
}
