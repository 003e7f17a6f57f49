package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const bufSize = 4 << 20 // 4 MiB

// utf8BOM is prepended by spreadsheet "CSV UTF-8" exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a CSV file whose first record is the header. A missing path yields an
// error wrapping ErrNotFound.
func Load(path string) (*Dataset, error) {
	return LoadWithNA(path, DefaultNAValues)
}

// LoadWithNA is Load with a custom list of missing-value markers.
func LoadWithNA(path string, naValues []string) (*Dataset, error) {
	in, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	ds, err := Read(bufio.NewReaderSize(in, bufSize), naValues)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Read decodes CSV from r. A leading UTF-8 byte-order mark is dropped so it
// does not become part of the first column name.
func Read(r io.Reader, naValues []string) (*Dataset, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	reader := csv.NewReader(br)

	/* Header ------------------------------------------------------------- */
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("read header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	ds, err := New(header)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	/* Rows --------------------------------------------------------------- */
	rowNum := 1 // header already counted
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}
		row := make([]Cell, len(rec))
		for i, field := range rec {
			row[i] = Parse(field, naValues)
		}
		if err := ds.AppendRow(row); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
	}
	return ds, nil
}

// Write encodes the header and every row as CSV. No index column is added.
func Write(w io.Writer, ds *Dataset) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rec := make([]string, len(ds.columns))
	for r, row := range ds.rows {
		for i, c := range row {
			rec[i] = c.String()
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Save writes ds to path. The data goes to a temporary file in the same directory
// which is renamed over path once complete, so a failed save never leaves a
// truncated file behind.
func Save(ds *Dataset, path string) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriterSize(tmp, bufSize)
	if err = Write(bw, ds); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	mode := fs.FileMode(0o644)
	if st, statErr := os.Stat(path); statErr == nil {
		mode = st.Mode().Perm()
	}
	if err = os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("chmod output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
