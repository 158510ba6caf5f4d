package pipeline

import (
	"bytes"
	"fmt"

	"github.com/knaptrace/knaptrace/pkg/render/nodelink"
	"github.com/knaptrace/knaptrace/pkg/report"
)

// RenderFormats renders a report into every requested format.
//
// The text format returns the trace embedded in the report; json returns
// the report document itself. The diagram formats (dot, svg, png, pdf)
// share one DOT conversion of the search tree. Formats must have been
// validated; an unknown format is an error.
func RenderFormats(rep *report.Report, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var dot string
	if opts.NeedsDiagram() {
		dot = nodelink.ToDOT(rep, nodelink.Options{Detailed: opts.Detailed})
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			data = []byte(rep.Trace)
		case FormatJSON:
			var buf bytes.Buffer
			if err = report.WriteJSON(rep, &buf); err == nil {
				data = buf.Bytes()
			}
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, opts.PNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
