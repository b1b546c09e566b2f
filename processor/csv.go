package processor

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/ZaguanLabs/csvlate"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CSVCodec reads and writes UTF-8 CSV tables with a header row.
//
// A leading byte order mark is accepted on input and always written on
// output, with CRLF line endings, so spreadsheet tools detect the encoding.
type CSVCodec struct {
	Comma rune // Field delimiter (default: ',')
}

// NewCSVCodec creates a comma-separated codec.
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{Comma: ','}
}

// Extension implements TableCodec.
func (c *CSVCodec) Extension() string {
	return ".csv"
}

func (c *CSVCodec) comma() rune {
	if c.Comma == 0 {
		return ','
	}
	return c.Comma
}

// Load reads path into a Table. Cells missing from short rows are absent
// from the row map; fields beyond the header are dropped.
func (c *CSVCodec) Load(path string) (*Table, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from the input directory listing
	if err != nil {
		return nil, &csvlate.FileError{Path: path, Op: "read", Cause: err}
	}
	defer f.Close()

	table, err := c.Decode(f)
	if err != nil {
		return nil, &csvlate.FileError{Path: path, Op: "read", Cause: err}
	}
	return table, nil
}

// Decode parses CSV from r.
func (c *CSVCodec) Decode(r io.Reader) (*Table, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	cr := csv.NewReader(transform.NewReader(r, decoder))
	cr.Comma = c.comma()
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}

	table := &Table{Headers: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(csvlate.Row, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			row[header[i]] = value
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// Save writes table to path, replacing any existing file.
func (c *CSVCodec) Save(path string, table *Table) error {
	f, err := os.Create(path) // #nosec G304 - path is inside the output directory
	if err != nil {
		return &csvlate.FileError{Path: path, Op: "write", Cause: err}
	}

	if err := c.Encode(f, table); err != nil {
		f.Close()
		return &csvlate.FileError{Path: path, Op: "write", Cause: err}
	}
	if err := f.Close(); err != nil {
		return &csvlate.FileError{Path: path, Op: "write", Cause: err}
	}
	return nil
}

// Encode writes table to w in header order. Absent cells are written empty.
// Records end in CRLF; line breaks inside a cell are written unchanged.
func (c *CSVCodec) Encode(w io.Writer, table *Table) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	rw := newRecordWriter(tw, c.comma())

	if err := rw.write(table.Headers); err != nil {
		return err
	}

	record := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for i, h := range table.Headers {
			record[i] = row[h]
		}
		if err := rw.write(record); err != nil {
			return err
		}
	}
	return tw.Close()
}

// recordWriter quotes one record at a time with csv.Writer and replaces its
// LF terminator with CRLF. csv.Writer's UseCRLF would also rewrite the line
// breaks inside quoted cells.
type recordWriter struct {
	out io.Writer
	buf bytes.Buffer
	cw  *csv.Writer
}

func newRecordWriter(out io.Writer, comma rune) *recordWriter {
	rw := &recordWriter{out: out}
	rw.cw = csv.NewWriter(&rw.buf)
	rw.cw.Comma = comma
	return rw
}

func (rw *recordWriter) write(record []string) error {
	rw.buf.Reset()
	if err := rw.cw.Write(record); err != nil {
		return err
	}
	rw.cw.Flush()
	if err := rw.cw.Error(); err != nil {
		return err
	}

	line := bytes.TrimSuffix(rw.buf.Bytes(), []byte{'\n'})
	if _, err := rw.out.Write(line); err != nil {
		return err
	}
	_, err := io.WriteString(rw.out, "\r\n")
	return err
}
