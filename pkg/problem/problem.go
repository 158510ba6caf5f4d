// Package problem loads knapsack problem files.
//
// Problems are written as TOML with parallel profit and weight vectors:
//
//	title   = "lecture example"
//	profits = [2, 3, 3, 5, 2, 4]
//	weights = [11, 8, 6, 14, 10, 10]
//	names   = ["x1", "x2", "x3", "x4", "x5", "x6"]
//
//	[[constraints]]
//	kind     = "le"
//	capacity = 40.0
//
// The same structure is accepted as a JSON object. [Load] picks the
// format from the file extension and falls back to content sniffing,
// so piped input ("-" reads stdin) works for either format.
package problem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/knaptrace/knaptrace/pkg/knapsack"
)

// ParseTOML decodes a TOML problem document and validates it.
//
// Validation errors from [knapsack.NewProblem] are returned unwrapped, so
// callers can match them with errors.Is against [knapsack.ErrConstraint]
// and [knapsack.ErrVectorLength].
func ParseTOML(data []byte) (*knapsack.Problem, error) {
	var in knapsack.Input
	if err := toml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}
	return knapsack.NewProblem(in)
}

// ParseJSON decodes a JSON problem document and validates it. The object
// keys mirror the TOML format: "profits", "weights", "names", and a
// "constraints" array.
func ParseJSON(data []byte) (*knapsack.Problem, error) {
	var in knapsack.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return knapsack.NewProblem(in)
}

// Parse decodes a problem document in either format. Input whose first
// non-space byte is '{' is treated as JSON; everything else as TOML.
func Parse(data []byte) (*knapsack.Problem, error) {
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(data)
	}
	return ParseTOML(data)
}

// Load reads a problem file at path and returns the validated problem.
//
// The special path "-" reads from stdin. Files ending in ".json" are
// decoded as JSON, files ending in ".toml" as TOML; any other extension
// is sniffed with [Parse]. Read failures are wrapped with the path;
// decode and validation errors are returned as [Parse] produces them.
func Load(path string) (*knapsack.Problem, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return Parse(data)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".toml":
		return ParseTOML(data)
	default:
		return Parse(data)
	}
}
