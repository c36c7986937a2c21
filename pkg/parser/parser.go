// Package parser reads JSON and JSON Lines records.
package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

// Record is a single JSON object. Numbers are kept as json.Number so
// integers survive exactly.
type Record map[string]any

// Parser streams records from a JSON document (one object, an array of
// objects, or concatenated objects) or from JSON Lines.
type Parser struct {
	closer  io.Closer
	isJSONL bool

	scanner *bufio.Scanner
	line    int

	reader  *bufio.Reader
	decoder *json.Decoder
	started bool
	inArray bool
}

// NewParser opens source for reading:
//   - "" or "-" reads stdin
//   - text starting with '{' or '[' is parsed inline
//   - anything else is a file; a .jsonl extension selects JSON Lines
func NewParser(source string) (*Parser, error) {
	switch {
	case source == "" || source == "-":
		return NewReader(os.Stdin, false), nil
	case source[0] == '{' || source[0] == '[':
		return NewReader(strings.NewReader(source), false), nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	p := NewReader(f, strings.HasSuffix(source, ".jsonl"))
	p.closer = f
	return p, nil
}

// NewReader reads records from r.
func NewReader(r io.Reader, jsonl bool) *Parser {
	p := &Parser{isJSONL: jsonl}
	if jsonl {
		p.scanner = bufio.NewScanner(r)
		p.scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	} else {
		p.reader = bufio.NewReader(r)
		p.decoder = json.NewDecoder(p.reader)
		p.decoder.UseNumber()
	}
	return p
}

// Close closes the underlying file, if the parser opened one.
func (p *Parser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// IsJSONL returns whether the parser is treating the input as JSON Lines.
func (p *Parser) IsJSONL() bool {
	return p.isJSONL
}

// Read returns the next record, or io.EOF once the input is exhausted.
func (p *Parser) Read() (Record, error) {
	if p.isJSONL {
		return p.readLine()
	}
	return p.readValue()
}

func (p *Parser) readLine() (Record, error) {
	for p.scanner.Scan() {
		p.line++
		line := strings.TrimSpace(p.scanner.Text())
		if line == "" {
			continue
		}
		var record Record
		if err := decode([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("line %d: failed to parse JSONL record: %w", p.line, err)
		}
		return record, nil
	}
	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading JSONL: %w", err)
	}
	return nil, io.EOF
}

func decode(data []byte, record *Record) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(record)
}

func (p *Parser) readValue() (Record, error) {
	if !p.started {
		p.started = true
		first, err := p.peek()
		if err != nil {
			return nil, err
		}
		if first == '[' {
			if _, err := p.decoder.Token(); err != nil {
				return nil, fmt.Errorf("failed to decode JSON array: %w", err)
			}
			p.inArray = true
		}
	}

	if p.inArray && !p.decoder.More() {
		t, err := p.decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode JSON array: %w", err)
		}
		if delim, ok := t.(json.Delim); !ok || delim != ']' {
			return nil, fmt.Errorf("expected array end, got %v", t)
		}
		p.inArray = false
		return nil, io.EOF
	}

	var record Record
	if err := p.decoder.Decode(&record); err != nil {
		if errors.Is(err, io.EOF) && !p.inArray {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode JSON record: %w", err)
	}
	return record, nil
}

// peek returns the first non-space byte without consuming it.
func (p *Parser) peek() (byte, error) {
	for {
		b, err := p.reader.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\n', '\t', '\r':
			_, _ = p.reader.ReadByte()
			continue
		}
		return b[0], nil
	}
}

// ForEachRecord calls fn for every remaining record.
func (p *Parser) ForEachRecord(fn func(Record) error) error {
	for {
		record, err := p.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}

// ReadAll reads every remaining record.
func (p *Parser) ReadAll() ([]Record, error) {
	var records []Record
	err := p.ForEachRecord(func(r Record) error {
		records = append(records, r)
		return nil
	})
	return records, err
}

// WriteJSONL writes records as JSON Lines.
func WriteJSONL(w io.Writer, records []Record, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
