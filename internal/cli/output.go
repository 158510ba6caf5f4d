package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knaptrace/knaptrace/pkg/pipeline"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// extFor maps a format to its file extension (without the dot).
func extFor(format string) string {
	if format == pipeline.FormatText {
		return "txt"
	}
	return format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .txt, etc.), it strips that extension.
// This is used when generating multiple files (e.g., demo.txt, demo.json).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if ext == "txt" || pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return output
}

// artifactWriteParams bundles the inputs for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // input file the run started from
	output    string // output path or base path, empty for derived names
	doneMsg   string // status line, e.g. "Solve complete"
	capped    bool   // search hit a node or depth cap
	rep       *report.Report
	cacheHit  bool
	nextDesc  string // suggested follow-up, optional
	nextCmd   string
}

// writeArtifacts writes rendered artifacts to files and prints a summary.
//
// A single text artifact with no explicit output goes to stdout verbatim
// with no decoration, keeping the trace pipeable. Everything else is
// written to files named after the output (or input) base path.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output == "" && p.formats[0] == pipeline.FormatText {
		_, err := os.Stdout.Write(p.artifacts[pipeline.FormatText])
		return err
	}

	if len(p.formats) == 1 {
		path := p.output
		if path == "" {
			path = basePath("", p.input) + "." + extFor(p.formats[0])
		}
		if err := writeArtifact(path, p.artifacts[p.formats[0]]); err != nil {
			return err
		}
		printSummary(p, []string{path})
		return nil
	}

	base := basePath(p.output, p.input)
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		path := base + "." + extFor(format)
		if err := writeArtifact(path, p.artifacts[format]); err != nil {
			return err
		}
		paths = append(paths, path)
	}
	printSummary(p, paths)
	return nil
}

// writeArtifact writes one artifact to path.
func writeArtifact(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// printSummary prints the post-run status block: status line, output
// files, solve stats, and an optional suggested next command. A capped
// search gets a warning line instead of a success line.
func printSummary(p artifactWriteParams, paths []string) {
	msg := p.doneMsg
	if msg == "" {
		msg = "Done"
	}
	if p.capped {
		printWarning("%s", msg)
	} else {
		printSuccess("%s", msg)
	}
	for _, path := range paths {
		printFile(path)
	}
	if p.rep != nil {
		printStats(p.rep, p.cacheHit)
	}
	if p.nextCmd != "" {
		printNewline()
		printNextStep(p.nextDesc, p.nextCmd)
	}
}
