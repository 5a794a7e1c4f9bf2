package source

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

// parseParquet reads a flat Parquet file into string cells. Dashboard sources
// carry dates as strings; numeric leaves are formatted and re-coerced by the
// cleaner like any other cell.
func parseParquet(data []byte) (*RawTable, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	fields := pf.Schema().Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name()
	}

	table := &RawTable{Columns: cols, Rows: make([][]string, 0, pf.NumRows())}

	for _, rg := range pf.RowGroups() {
		rr := rg.Rows()
		buf := make([]parquet.Row, 256)
		for {
			n, readErr := rr.ReadRows(buf)
			for i := 0; i < n; i++ {
				rec := make([]string, len(cols))
				for _, v := range buf[i] {
					ci := int(v.Column())
					if v.IsNull() || ci < 0 || ci >= len(cols) {
						continue
					}
					rec[ci] = formatValue(v)
				}
				table.Rows = append(table.Rows, rec)
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				rr.Close()
				return nil, fmt.Errorf("read parquet rows: %w", readErr)
			}
		}
		if err := rr.Close(); err != nil {
			return nil, fmt.Errorf("close row reader: %w", err)
		}
	}
	return table, nil
}

func formatValue(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	default:
		return string(v.ByteArray())
	}
}
