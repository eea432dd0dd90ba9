package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the first sheet with the same column layout as CSV.
// Rows are numbered as in the spreadsheet.
func (im *Importer) parseXLSX(ctx context.Context, r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("failed to open Excel file: %v", err)}}, nil
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{Errors: []string{errNoDataRows}}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{}, fmt.Errorf("failed to get rows: %v", err)
	}

	res := Result{Errors: make([]string, 0)}
	header := true
	dataRows := 0
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if blank(row) {
			continue
		}
		if header {
			header = false
			continue
		}
		dataRows++
		im.addRow(&res, i+1, row)
	}

	if dataRows == 0 {
		return Result{Errors: []string{errNoDataRows}}, nil
	}
	return res, nil
}
