package spreadsheet

import (
	"context"
	"io"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/team-randomiser/internal/domain/player"
	"github.com/xuri/excelize/v2"
)

const (
	columnName     = "name"
	columnPosition = "position"
)

var ErrMissingColumns = crerr.New("spreadsheet must have 'Name' and 'Position' columns")

// Importer reads a player table from the first sheet of an xlsx workbook.
type Importer struct{}

func NewImporter() *Importer {
	return &Importer{}
}

// Read returns one player per data row. The header row is the first non-blank
// row and must contain Name and Position columns in any order and case.
// Blank rows and rows without a name are skipped.
func (i *Importer) Read(ctx context.Context, source io.Reader) ([]player.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(source)
	if err != nil {
		return nil, crerr.Wrap(err, "open workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, crerr.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, crerr.Wrapf(err, "read sheet %q", sheet)
	}

	headerIdx := firstNonBlankRow(rows)
	if headerIdx < 0 {
		return nil, crerr.Wrapf(ErrMissingColumns, "sheet %q is empty", sheet)
	}
	nameCol, posCol := locateColumns(rows[headerIdx])
	if nameCol < 0 || posCol < 0 {
		return nil, crerr.Wrapf(ErrMissingColumns, "sheet %q", sheet)
	}

	players := make([]player.Player, 0, len(rows)-headerIdx-1)
	for rowIdx := headerIdx + 1; rowIdx < len(rows); rowIdx++ {
		row := rows[rowIdx]
		name := cell(row, nameCol)
		if name == "" {
			continue
		}

		pos, err := player.ParsePosition(cell(row, posCol))
		if err != nil {
			return nil, crerr.Wrapf(err, "row %d", rowIdx+1)
		}
		players = append(players, player.Player{Name: name, Position: pos})
	}

	return players, nil
}

func locateColumns(header []string) (nameCol, posCol int) {
	nameCol, posCol = -1, -1
	for idx, raw := range header {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case columnName:
			if nameCol < 0 {
				nameCol = idx
			}
		case columnPosition:
			if posCol < 0 {
				posCol = idx
			}
		}
	}
	return nameCol, posCol
}

func firstNonBlankRow(rows [][]string) int {
	for idx, row := range rows {
		for _, value := range row {
			if strings.TrimSpace(value) != "" {
				return idx
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
