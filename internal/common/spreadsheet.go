package common

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/Kiran-879/ResumePilot/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WorkbookSummary describes a downloaded candidate-export spreadsheet without
// re-saving it: sheet name, header row and data row count.
type WorkbookSummary struct {
	Sheet   string
	Headers []string
	Rows    int
}

func (ws WorkbookSummary) String() string {
	return fmt.Sprintf("%s: %d rows (%s)", ws.Sheet, ws.Rows, strings.Join(ws.Headers, ", "))
}

// SummarizeWorkbook opens an exported spreadsheet blob and summarizes its
// first sheet. The export itself stays an opaque blob; this only peeks at it
// for the --summary preview.
func SummarizeWorkbook(content []byte) (*WorkbookSummary, error) {
	wb, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Downloaded export is not a readable spreadsheet", err)
	}
	defer func() {
		_ = wb.Close()
	}()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			"Downloaded export has no sheets", nil)
	}

	sheet := sheets[0]
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to read sheet %q", sheet), err)
	}

	summary := &WorkbookSummary{Sheet: sheet}
	if len(rows) > 0 {
		summary.Headers = rows[0]
		summary.Rows = len(rows) - 1
	}
	return summary, nil
}
