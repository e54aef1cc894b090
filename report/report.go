package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/moepig/aws-resource-count/resources"
)

// Report is the final resource count of a run
type Report struct {
	ResourceTypes map[string]int `json:"resource_types"`
	TotalAssets   int            `json:"total_assets"`
}

// New finalizes counts into a Report. It must be called only after every
// profile has been processed.
func New(counts resources.Counts) Report {
	resourceTypes := make(map[string]int, len(counts))
	for resourceType, n := range counts {
		resourceTypes[resourceType] = n
	}
	return Report{
		ResourceTypes: resourceTypes,
		TotalAssets:   counts.Total(),
	}
}

// Marshal renders the report as indented JSON with resource types in
// lexicographic order
func (r Report) Marshal() ([]byte, error) {
	// encoding/json writes map keys sorted
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// Writer prints reports and optionally saves them to a file
type Writer struct {
	out        io.Writer
	outputFile string
}

// NewWriter creates a new Writer. An empty outputFile disables the file copy.
func NewWriter(out io.Writer, outputFile string) *Writer {
	return &Writer{
		out:        out,
		outputFile: outputFile,
	}
}

// Write prints the report and, when an output file is set, overwrites the
// file with the same content
func (w *Writer) Write(r Report) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w.out, string(data)); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if w.outputFile == "" {
		return nil
	}

	// Create output directory if needed
	outDir := filepath.Dir(w.outputFile)
	if outDir != "" && outDir != "." {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory '%s': %w", outDir, err)
		}
	}

	if err := os.WriteFile(w.outputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file '%s': %w", w.outputFile, err)
	}

	return nil
}
