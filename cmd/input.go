package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/bisegni/soagen/pkg/loader"
	"github.com/bisegni/soagen/pkg/plan"
	"github.com/bisegni/soagen/pkg/planner"
	"github.com/bisegni/soagen/pkg/schema"
)

var (
	errUnknownRecord = errors.New("record not found in schema")
	errNoTypeNames   = errors.New("no type names given")
)

// input is a set of records read either from a .soa schema or from struct
// types in a Go package.
type input struct {
	source  string
	pkg     string
	dir     string
	schema  bool
	records []*schema.Record
}

func isSchemaFile(path string) bool {
	return filepath.Ext(path) == ".soa"
}

// readInput reads the records named in names from source. For a schema an
// empty names list selects every record.
func readInput(ctx context.Context, source string, names []string, tags []string) (*input, error) {
	if isSchemaFile(source) {
		return readSchema(source, names)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%s: %w", source, errNoTypeNames)
	}
	res, err := loader.Load(ctx, source, names, loader.WithBuildTags(tags...))
	if err != nil {
		return nil, err
	}
	return &input{source: source, pkg: res.Package, dir: res.Dir, records: res.Records}, nil
}

func readSchema(path string, names []string) (*input, error) {
	s, err := schema.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	in := &input{source: path, pkg: s.Package, dir: filepath.Dir(path), schema: true}
	if len(names) == 0 {
		in.records = s.Records
		return in, nil
	}
	for _, name := range names {
		rec, ok := s.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%s: %s: %w", path, name, errUnknownRecord)
		}
		in.records = append(in.records, rec)
	}
	return in, nil
}

func (in *input) plans() ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, 0, len(in.records))
	for _, rec := range in.records {
		p, err := planner.CreatePlan(rec)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// defaultOutput is foo_soa.go next to foo.soa, or zz_generated.soa.go in a
// package directory.
func (in *input) defaultOutput() string {
	if in.schema {
		base := filepath.Base(in.source)
		return filepath.Join(in.dir, base[:len(base)-len(".soa")]+"_soa.go")
	}
	return filepath.Join(in.dir, "zz_generated.soa.go")
}
