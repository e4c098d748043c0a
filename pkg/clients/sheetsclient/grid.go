package sheetsclient

import (
	"fmt"
	"math"

	"google.golang.org/api/sheets/v4"
)

// GridCell is one spreadsheet cell with its displayed value and effective
// background color in ARGB hex form (e.g. "FF00FF00" for opaque green).
type GridCell struct {
	Value string
	Color string
}

// GetGrid reads a sheet range including cell formatting, so preference
// colors can be mapped to values. Rows may be ragged; trailing empty cells
// are not padded.
func (c *Client) GetGrid(spreadsheetID, sheetRange string) ([][]GridCell, error) {
	resp, err := c.service.Spreadsheets.Get(spreadsheetID).
		Ranges(sheetRange).
		IncludeGridData(true).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get grid data: %w", err)
	}

	if len(resp.Sheets) == 0 || len(resp.Sheets[0].Data) == 0 {
		return nil, fmt.Errorf("no grid data returned for range %q", sheetRange)
	}

	data := resp.Sheets[0].Data[0]
	grid := make([][]GridCell, 0, len(data.RowData))
	for _, row := range data.RowData {
		cells := make([]GridCell, 0, len(row.Values))
		for _, cell := range row.Values {
			gridCell := GridCell{Value: cell.FormattedValue}
			if cell.EffectiveFormat != nil && cell.EffectiveFormat.BackgroundColor != nil {
				gridCell.Color = argbHex(cell.EffectiveFormat.BackgroundColor)
			}
			cells = append(cells, gridCell)
		}
		grid = append(grid, cells)
	}

	return grid, nil
}

// argbHex formats a sheets color as uppercase ARGB hex. The API leaves
// Alpha unset for opaque colors, so zero alpha is treated as opaque.
func argbHex(color *sheets.Color) string {
	alpha := color.Alpha
	if alpha == 0 {
		alpha = 1
	}
	return fmt.Sprintf("%02X%02X%02X%02X",
		channelByte(alpha),
		channelByte(color.Red),
		channelByte(color.Green),
		channelByte(color.Blue),
	)
}

func channelByte(channel float64) int {
	return int(math.Round(channel * 255))
}
