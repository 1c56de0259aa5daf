package spreadsheet

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/valyala/bytebufferpool"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXLSX      = "xlsx"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	summarySheet = "Summary"
	balanceLabel = "Balance"
)

// Exporter writes an assignment as a workbook: a Summary sheet with one row
// per team, then one "Team N" sheet per team ending in a Balance row.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Format() string {
	return FormatXLSX
}

func (e *Exporter) ContentType() string {
	return ContentTypeXLSX
}

func (e *Exporter) Render(ctx context.Context, assignment allocation.Assignment) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, crerr.Wrap(err, "create header style")
	}

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, crerr.Wrap(err, "rename summary sheet")
	}
	if err := writeSummary(f, assignment, bold); err != nil {
		return nil, err
	}

	for _, team := range assignment.Teams {
		if err := writeTeam(f, team, bold); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := f.WriteTo(buf); err != nil {
		return nil, crerr.Wrap(err, "write workbook")
	}

	return append([]byte(nil), buf.B...), nil
}

func writeSummary(f *excelize.File, assignment allocation.Assignment, headerStyle int) error {
	header := []any{"Team", "GK", "DEF", "MID", "ST", "Total"}
	if err := f.SetSheetRow(summarySheet, "A1", &header); err != nil {
		return crerr.Wrap(err, "write summary header")
	}
	if err := f.SetCellStyle(summarySheet, "A1", "F1", headerStyle); err != nil {
		return crerr.Wrap(err, "style summary header")
	}

	for idx, team := range assignment.Teams {
		b := team.Balance()
		row := []any{teamSheetName(team.Number), b.GK, b.DEF, b.MID, b.ST, b.Total}
		axis, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return crerr.Wrap(err, "summary cell")
		}
		if err := f.SetSheetRow(summarySheet, axis, &row); err != nil {
			return crerr.Wrapf(err, "write summary row for team %d", team.Number)
		}
	}

	return nil
}

func writeTeam(f *excelize.File, team allocation.Team, headerStyle int) error {
	sheet := teamSheetName(team.Number)
	if _, err := f.NewSheet(sheet); err != nil {
		return crerr.Wrapf(err, "create sheet %q", sheet)
	}

	header := []any{"Player", "Position"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return crerr.Wrapf(err, "write header of %q", sheet)
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
		return crerr.Wrapf(err, "style header of %q", sheet)
	}
	if err := f.SetColWidth(sheet, "A", "B", 32); err != nil {
		return crerr.Wrapf(err, "size columns of %q", sheet)
	}

	for idx, p := range team.Players {
		row := idx + 2
		if err := setRow(f, sheet, row, p.Name, string(p.Position)); err != nil {
			return err
		}
	}

	balanceRow := len(team.Players) + 2
	if err := setRow(f, sheet, balanceRow, balanceLabel, team.Balance().String()); err != nil {
		return err
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...string) error {
	for col, value := range values {
		axis, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return crerr.Wrap(err, "cell name")
		}
		if err := f.SetCellValue(sheet, axis, value); err != nil {
			return crerr.Wrapf(err, "write %s!%s", sheet, axis)
		}
	}
	return nil
}

func teamSheetName(number int) string {
	return fmt.Sprintf("Team %d", number)
}
