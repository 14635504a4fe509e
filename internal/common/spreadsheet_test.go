package common

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	wb := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := wb.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("Failed to set sheet row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	return buf.Bytes()
}

func TestSummarizeWorkbook(t *testing.T) {
	content := buildWorkbook(t, [][]any{
		{"Candidate", "Score", "Recommendation"},
		{"Alice Smith", 92, "highly_recommended"},
		{"Bob Jones", 61, "consider"},
	})

	summary, err := SummarizeWorkbook(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.Sheet != "Sheet1" {
		t.Errorf("Expected sheet 'Sheet1', got '%s'", summary.Sheet)
	}
	if !reflect.DeepEqual(summary.Headers, []string{"Candidate", "Score", "Recommendation"}) {
		t.Errorf("Unexpected headers: %v", summary.Headers)
	}
	if summary.Rows != 2 {
		t.Errorf("Expected 2 data rows, got %d", summary.Rows)
	}
}

func TestSummarizeWorkbookEmptySheet(t *testing.T) {
	content := buildWorkbook(t, nil)
	summary, err := SummarizeWorkbook(content)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if summary.Rows != 0 || len(summary.Headers) != 0 {
		t.Errorf("Expected empty summary, got %+v", summary)
	}
}

func TestSummarizeWorkbookRejectsGarbage(t *testing.T) {
	if _, err := SummarizeWorkbook([]byte("this is not a spreadsheet")); err == nil {
		t.Error("Expected an error for a non-spreadsheet blob")
	}
}
