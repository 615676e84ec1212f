// Package csv implements a streaming CSV reader for the race importer. It
// avoids whole-file buffering and can handle very large inputs safely; bad
// rows are soft-dropped via an error callback so one mangled line never
// aborts a run.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/PBPF11/vacathon/internal/config"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Row is one parsed CSV record keyed by canonical column names.
type Row struct {
	// Line is the 1-based data line number (the header is line 0).
	Line int

	// Fields maps canonical column name to the raw cell text.
	Fields map[string]string
}

// StreamRows reads CSV records from src and sends them to out until EOF or
// context cancellation. The channel is left open for the caller to close
// once all readers finish.
//
// Header handling:
//   - With has_header==true (the default), the first line is treated as a
//     header and mapped via header_map (source name -> canonical); unmapped
//     headers are lowercased with spaces replaced by underscores. A UTF-8
//     BOM on the first cell is stripped.
//   - Without a header, columns are keyed "col_0", "col_1", ...
//
// Options (all optional):
//   - has_header (bool, default true)
//   - comma (string; first rune used; default ',')
//   - trim_space (bool, default true)
//   - header_map (object)
//   - lazy_quotes (bool, default false)
//
// onErr(line, err) receives recoverable row errors (soft-drop).
func StreamRows(
	ctx context.Context,
	src io.ReadCloser,
	opt config.Options,
	out chan<- Row,
	onErr func(line int, err error),
) error {
	defer src.Close()

	hasHeader := opt.Bool("has_header", true)
	trim := opt.Bool("trim_space", true)
	headerMap := opt.StringMap("header_map")

	cr := csv.NewReader(src)
	cr.Comma = opt.Rune("comma", ',')
	cr.LazyQuotes = opt.Bool("lazy_quotes", false)
	cr.ReuseRecord = true

	var headers []string
	if hasHeader {
		h, err := cr.Read()
		if err != nil {
			return fmt.Errorf("read csv header: %w", err)
		}
		headers = normalizeHeaders(h, headerMap)
		// Width is enforced against the header from here on.
		cr.FieldsPerRecord = len(headers)
	}

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if onErr != nil {
				onErr(line, err)
			}
			continue
		}

		fields := make(map[string]string, len(rec))
		for i, val := range rec {
			if trim {
				val = strings.TrimSpace(val)
			}
			// ReuseRecord shares the backing buffer between reads; the
			// cell must be cloned before it outlives this iteration.
			fields[keyFor(i, headers)] = strings.Clone(val)
		}

		select {
		case out <- Row{Line: line, Fields: fields}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// keyFor returns the column key for index idx, using headers when available,
// otherwise synthesizing a "col_N" name.
func keyFor(idx int, headers []string) string {
	if idx < len(headers) && headers[idx] != "" {
		return headers[idx]
	}
	return fmt.Sprintf("col_%d", idx)
}

// normalizeHeaders produces canonical header keys using headerMap (when
// provided) and simple normalization (lowercase, spaces to underscores). It
// also strips a UTF-8 BOM from the first cell if present.
func normalizeHeaders(h []string, headerMap map[string]string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if m, ok := headerMap[c]; ok {
			res[i] = m
			continue
		}
		res[i] = strings.ReplaceAll(strings.ToLower(c), " ", "_")
	}
	return res
}
