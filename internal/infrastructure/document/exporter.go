package document

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-pdf/fpdf"
	"github.com/riskibarqy/team-randomiser/internal/domain/allocation"
	"github.com/valyala/bytebufferpool"
)

const (
	FormatPDF      = "pdf"
	ContentTypePDF = "application/pdf"

	DefaultTitle = "Team Randomiser - Teams"

	fontFamily = "DejaVuSansCondensed"
)

// DejaVu covers Latin Extended, Greek and Cyrillic, so player names render
// as typed rather than through a single-byte code page.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontItalic []byte
)

// Exporter renders an assignment as a paginated A4 document: a title, then
// for each team a heading, one line per player and an italic balance line.
type Exporter struct {
	title    string
	compress bool
}

func NewExporter(title string) *Exporter {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return &Exporter{title: title, compress: true}
}

func (e *Exporter) Format() string {
	return FormatPDF
}

func (e *Exporter) ContentType() string {
	return ContentTypePDF
}

func (e *Exporter) Render(ctx context.Context, assignment allocation.Assignment) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetTitle(e.title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.AddUTF8FontFromBytes(fontFamily, "", fontRegular)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", fontBold)
	pdf.AddUTF8FontFromBytes(fontFamily, "I", fontItalic)

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 18)
	pdf.CellFormat(0, 12, e.title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, team := range assignment.Teams {
		pdf.SetFont(fontFamily, "B", 14)
		pdf.CellFormat(0, 9, fmt.Sprintf("Team %d", team.Number), "", 1, "L", false, 0, "")

		pdf.SetFont(fontFamily, "", 11)
		for _, p := range team.Players {
			pdf.CellFormat(0, 6, p.String(), "", 1, "L", false, 0, "")
		}

		pdf.SetFont(fontFamily, "I", 10)
		pdf.CellFormat(0, 7, "Balance: "+team.Balance().String(), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return nil, crerr.Wrap(err, "layout document")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := pdf.Output(buf); err != nil {
		return nil, crerr.Wrap(err, "write document")
	}

	return append([]byte(nil), buf.B...), nil
}
