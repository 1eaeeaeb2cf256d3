package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"nova/internal/core"
)

var (
	// ErrUnreadable means the document could not be opened as a workbook at
	// all. The import is aborted and the list stays untouched.
	ErrUnreadable = errors.New("file is not a readable spreadsheet")

	// ErrNoRows means the workbook parsed but produced zero usable rows,
	// reported distinctly from a structural failure.
	ErrNoRows = errors.New("no valid data found")
)

// Read decodes the first sheet of an untrusted workbook into transactions.
// Only exact, case-sensitive column headers are recognized; missing columns
// fall back to the row decoder's defaults. Individual malformed rows never
// fail the import.
func Read(r io.Reader) ([]core.Transaction, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrUnreadable
	}

	// Only the first sheet is read.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	// Header positions for the columns we recognize; everything else is
	// ignored.
	colIdx := make(map[int]string)
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		for _, known := range Columns {
			if name == known {
				colIdx[i] = known
				break
			}
		}
	}

	idBase := uuid.NewString()
	now := time.Now().UTC()
	var txs []core.Transaction
	for idx, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		cells := make(map[string]string, len(colIdx))
		for i, name := range colIdx {
			if i < len(row) {
				cells[name] = row[i]
			}
		}
		txs = append(txs, decodeRow(cells, idBase, idx, now))
	}

	if len(txs) == 0 {
		return nil, ErrNoRows
	}
	return txs, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
