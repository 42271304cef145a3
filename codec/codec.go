// Package codec renders tabular frames into the byte encodings stored in
// the lake: delimited text with optional gzip compression, and parquet.
//
// Encoders are deterministic: the same frame and format selector produce
// byte-identical output across runs. The gzip header carries no name or
// modification time, and the parquet writer properties are pinned, so
// content digests computed over encoder output are stable idempotency
// tokens.
package codec

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/apache/arrow/go/v10/arrow"
	"github.com/apache/arrow/go/v10/arrow/array"
	"github.com/apache/arrow/go/v10/arrow/memory"
	"github.com/apache/arrow/go/v10/parquet"
	"github.com/apache/arrow/go/v10/parquet/compress"
	"github.com/apache/arrow/go/v10/parquet/file"
	"github.com/apache/arrow/go/v10/parquet/pqarrow"

	"github.com/meridian-data/lakestage/dataset"
)

// Format selects the byte encoding of a frame.
type Format string

// Supported formats.
const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// Compression selects the compression applied to delimited-text output.
// Parquet compresses internally and ignores this selector.
type Compression string

// Supported compression modes.
const (
	CompressionGzip Compression = "gzip"
	CompressionNone Compression = "none"
)

// timeLayout is the cell format for timestamp columns in delimited text.
const timeLayout = "2006-01-02 15:04:05"

// parquetCreatedBy pins the created_by footer field so identical frames
// re-encode to identical bytes.
const parquetCreatedBy = "lakestage"

// ParseFormat parses a format selector from user input.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatParquet:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q", s)
	}
}

// ParseCompression parses a compression selector from user input.
func ParseCompression(s string) (Compression, error) {
	switch Compression(s) {
	case CompressionGzip, CompressionNone:
		return Compression(s), nil
	default:
		return "", fmt.Errorf("unsupported compression %q", s)
	}
}

// Encoded is the result of rendering a frame.
type Encoded struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Extension returns the file extension for a format/compression pair
// ("csv", "csv.gz", or "parquet").
func Extension(format Format, comp Compression) string {
	if format == FormatCSV && comp == CompressionGzip {
		return "csv.gz"
	}
	return string(format)
}

// Encode renders a frame into bytes for the given format and compression.
func Encode(f *dataset.Frame, format Format, comp Compression) (*Encoded, error) {
	switch format {
	case FormatCSV:
		return encodeCSV(f, comp)
	case FormatParquet:
		return encodeParquet(f)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func encodeCSV(f *dataset.Frame, comp Compression) (*Encoded, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(f.ColumnNames()); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	n := f.NumRows()
	record := make([]string, len(f.Columns))
	for row := 0; row < n; row++ {
		for i := range f.Columns {
			record[i] = formatCell(&f.Columns[i], row)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", row, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	if comp != CompressionGzip {
		return &Encoded{
			Data:        buf.Bytes(),
			ContentType: "text/csv",
			Extension:   Extension(FormatCSV, comp),
		}, nil
	}

	// The zero gzip header (no name, no mtime) keeps output byte-stable.
	var gzBuf bytes.Buffer
	gz := gzip.NewWriter(&gzBuf)
	if _, err := gz.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("gzip csv: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip: %w", err)
	}

	return &Encoded{
		Data:        gzBuf.Bytes(),
		ContentType: "application/gzip",
		Extension:   Extension(FormatCSV, CompressionGzip),
	}, nil
}

func formatCell(c *dataset.Column, row int) string {
	switch {
	case c.Ints != nil:
		return strconv.FormatInt(c.Ints[row], 10)
	case c.Floats != nil:
		return strconv.FormatFloat(c.Floats[row], 'f', -1, 64)
	case c.Times != nil:
		return c.Times[row].UTC().Format(timeLayout)
	default:
		return c.Strings[row]
	}
}

func encodeParquet(f *dataset.Frame) (*Encoded, error) {
	mem := memory.NewGoAllocator()

	fields := make([]arrow.Field, len(f.Columns))
	for i := range f.Columns {
		fields[i] = arrow.Field{
			Name: f.Columns[i].Name,
			Type: arrowType(&f.Columns[i]),
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(mem, schema)
	defer builder.Release()

	for i := range f.Columns {
		col := &f.Columns[i]
		switch {
		case col.Ints != nil:
			builder.Field(i).(*array.Int64Builder).AppendValues(col.Ints, nil)
		case col.Floats != nil:
			builder.Field(i).(*array.Float64Builder).AppendValues(col.Floats, nil)
		case col.Times != nil:
			ts := make([]arrow.Timestamp, len(col.Times))
			for j, t := range col.Times {
				ts[j] = arrow.Timestamp(t.UTC().UnixMicro())
			}
			builder.Field(i).(*array.TimestampBuilder).AppendValues(ts, nil)
		default:
			builder.Field(i).(*array.StringBuilder).AppendValues(col.Strings, nil)
		}
	}

	rec := builder.NewRecord()
	defer rec.Release()

	tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
	defer tbl.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithCreatedBy(parquetCreatedBy),
	)

	var buf bytes.Buffer
	err := pqarrow.WriteTable(tbl, &buf, int64(f.NumRows()), props, pqarrow.DefaultWriterProps())
	if err != nil {
		return nil, fmt.Errorf("write parquet: %w", err)
	}

	return &Encoded{
		Data:        buf.Bytes(),
		ContentType: "application/vnd.apache.parquet",
		Extension:   Extension(FormatParquet, CompressionNone),
	}, nil
}

func arrowType(c *dataset.Column) arrow.DataType {
	switch {
	case c.Ints != nil:
		return arrow.PrimitiveTypes.Int64
	case c.Floats != nil:
		return arrow.PrimitiveTypes.Float64
	case c.Times != nil:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

// DecodeCSV parses delimited-text output (optionally gzipped) back into
// records, header row included.
func DecodeCSV(data []byte, comp Compression) ([][]string, error) {
	var body []byte
	if comp == CompressionGzip {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("open gzip: %w", err)
		}
		defer gz.Close()
		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(gz); err != nil {
			return nil, fmt.Errorf("read gzip: %w", err)
		}
		body = buf.Bytes()
	} else {
		body = data
	}

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

// DecodeParquet reads parquet bytes back into an arrow table.
// The caller must Release the returned table.
func DecodeParquet(ctx context.Context, data []byte) (arrow.Table, error) {
	pf, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("read parquet schema: %w", err)
	}

	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read parquet table: %w", err)
	}
	return tbl, nil
}
