package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Header returns the CSV header, matching the op_systems column order.
func Header() []string {
	return []string{
		"name", "country", "state", "age", "os",
		"is_rich", "is_insane", "is_nice", "reason",
	}
}

// record converts a row to CSV fields.
func record(r Row) []string {
	return []string{
		r.Name, r.Country, r.State, strconv.Itoa(r.Age), r.OS,
		r.Rich, r.Insane, r.Nice, r.Reason,
	}
}

// WriteCSV writes rows to w. The header is written when withHeader is true.
func WriteCSV(w io.Writer, rows []Row, withHeader bool) error {
	cw := csv.NewWriter(w)

	if withHeader {
		if err := cw.Write(Header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i := range rows {
		if err := cw.Write(record(rows[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// AppendCSV appends rows to the file at path, creating it if needed.
// The header is written only when the file is empty, so repeated runs
// keep appending to the same dataset.
func AppendCSV(path string, rows []Row) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := WriteCSV(f, rows, stat.Size() == 0); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
