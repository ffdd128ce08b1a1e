// Package pipeline wires the conversion stages together: workbook in,
// mapping document, struct engine, XML out.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/klytics/sheetxml/internal/engine"
	"github.com/klytics/sheetxml/internal/formats/xlsx"
	"github.com/klytics/sheetxml/internal/mapping"
	"github.com/klytics/sheetxml/internal/xmlbuild"
)

// Options configures one conversion run.
type Options struct {
	// Input is the workbook path.
	Input string
	// Output is the XML file path. Empty means render to Result.XML
	// instead of writing a file.
	Output string
	// Mapping is the mapping document path.
	Mapping string
	// Sheet selects a worksheet by name; empty selects the first sheet.
	Sheet string
	// Indent is the number of spaces per nesting level; 0 writes compact
	// XML.
	Indent int
}

// Result summarizes a completed conversion.
type Result struct {
	Input   string       `json:"input"`
	Output  string       `json:"output,omitempty"`
	Mapping string       `json:"mapping"`
	Sheet   string       `json:"sheet"`
	Stats   engine.Stats `json:"stats"`

	// XML holds the rendered document when no output path was given.
	XML string `json:"-"`
}

// Run executes the conversion. The output file is only created once the
// whole document has been built and serialized; a failure leaves no partial
// output behind.
func Run(opts Options) (*Result, error) {
	doc, err := mapping.Load(opts.Mapping)
	if err != nil {
		return nil, err
	}

	sheet, err := xlsx.ReadSheet(opts.Input, opts.Sheet)
	if err != nil {
		return nil, err
	}

	tree, stats, err := engine.BuildTree(doc, sheet.Rows)
	if err != nil {
		return nil, err
	}

	xmlDoc, err := xmlbuild.Build(tree)
	if err != nil {
		return nil, err
	}
	if opts.Indent > 0 {
		xmlDoc.Indent(opts.Indent)
	}

	result := &Result{
		Input:   opts.Input,
		Output:  opts.Output,
		Mapping: opts.Mapping,
		Sheet:   sheet.Name,
		Stats:   stats,
	}

	if opts.Output == "" {
		text, err := xmlDoc.WriteToString()
		if err != nil {
			return nil, fmt.Errorf("could not serialize XML: %w", err)
		}
		result.XML = text
		return result, nil
	}

	if err := writeAtomic(xmlDoc.WriteToFile, opts.Output); err != nil {
		return nil, err
	}
	return result, nil
}

// writeAtomic writes to a uniquely named temp file next to the target and
// renames it into place, so a crash mid-write never leaves a truncated
// output file.
func writeAtomic(write func(path string) error, path string) error {
	dir := filepath.Dir(path)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))

	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not move output into place: %w", err)
	}
	return nil
}
