package ledger

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// ExportCSV writes the de-duplicated history, newest first.
func (l *Ledger) ExportCSV(w io.Writer) error {
	entries := l.Unique()
	if err := gocsv.Marshal(&entries, w); err != nil {
		return fmt.Errorf("export burn history: %w", err)
	}
	return nil
}
