// Package export renders the grouped inventory as an xlsx workbook.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/angelmondragon/crewstock-backend/internal/inventory"
)

const (
	SheetName   = "Inventory"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	noLocationLabel = "No location"
)

var header = []string{"Location", "Order", "Item", "Qty", "Updated By", "Updated At"}

var columnWidths = []float64{24, 8, 36, 8, 24, 22}

// Filename is the attachment name for an export generated at the given time.
func Filename(at time.Time) string {
	return fmt.Sprintf("inventory-%s.xlsx", at.UTC().Format("20060102-1504"))
}

// Workbook writes one row per item in display order. Empty groups are skipped.
func Workbook(result *inventory.ListResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := writeRow(f, 1, toAny(header)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(SheetName, "A1", "F1", headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	row := 2
	if result != nil {
		for _, group := range result.Groups {
			label := noLocationLabel
			if group.Location != nil {
				label = group.Location.Name
			}
			var order any = ""
			if group.Order != nil {
				order = *group.Order
			}
			for _, item := range group.Items {
				values := []any{
					label,
					order,
					item.Name,
					item.Qty,
					item.UpdatedByName,
					item.UpdatedAt.UTC().Format(time.RFC3339),
				}
				if err := writeRow(f, row, values); err != nil {
					return nil, err
				}
				row++
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
