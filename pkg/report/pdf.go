package report

import (
	"fmt"
	"image"
	_ "image/jpeg" // embed validation for .jpg/.jpeg
	_ "image/png"  // embed validation for .png
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/benchlab/benchreport/pkg/errors"
	"github.com/benchlab/benchreport/pkg/metadata"
	"github.com/benchlab/benchreport/pkg/organize"
)

// PDFFileName is the fixed name of the PDF report artifact.
const PDFFileName = "report.pdf"

// Options controls report rendering.
type Options struct {
	// Title is the report title on the metadata page.
	Title string

	// Geometry is the page/grid geometry. Zero value means
	// DefaultGeometry().
	Geometry Geometry

	// ShowLocalTime adds a site-local time line shifted by
	// LocalTimeOffsetHours to the metadata block.
	ShowLocalTime        bool
	LocalTimeOffsetHours int
}

// DefaultOptions returns rendering options with the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Title:    "Data Analysis Report",
		Geometry: DefaultGeometry(),
	}
}

// pdfWriter wraps fpdf with the bench report drawing vocabulary.
type pdfWriter struct {
	pdf  *fpdf.Fpdf
	geom Geometry
	log  *zap.Logger
}

// RenderPDF writes report.pdf under outDir and returns its path.
// Images that cannot be embedded are replaced by a placeholder cell and
// logged; a bad image never aborts the report.
func RenderPDF(outDir string, meta metadata.Record, csvs []organize.CSVSummary, sections []Section, opts Options, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Geometry.ContentWidth == 0 {
		opts.Geometry = DefaultGeometry()
	}
	if opts.Title == "" {
		opts.Title = "Data Analysis Report"
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, opts.Geometry.AutoBreakMargin)

	w := &pdfWriter{pdf: pdf, geom: opts.Geometry, log: log}

	w.metadataPage(opts, meta)
	w.csvSummary(csvs)

	for _, section := range sections {
		if section.Bucket.IsPSD() {
			w.psdSection(section)
		} else {
			w.gridSection(section)
		}
	}

	if pdf.Err() {
		return "", errors.WrapLayout(pdf.Error(), "PDF_RENDER_FAILED", "pdf generation failed")
	}

	outPath := filepath.Join(outDir, PDFFileName)
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return "", errors.WrapIO(err, "PDF_WRITE_FAILED", "cannot write pdf report").
			WithContext("path", outPath)
	}
	return outPath, nil
}

// metadataPage emits the title and the metadata block.
func (w *pdfWriter) metadataPage(opts Options, meta metadata.Record) {
	w.pdf.AddPage()
	w.pdf.SetFont("Arial", "B", 16)
	w.pdf.CellFormat(0, 10, opts.Title, "", 1, "C", false, 0, "")
	w.pdf.Ln(5)

	w.pdf.SetFont("Arial", "B", 12)
	w.pdf.CellFormat(0, 6, "Metadata", "", 1, "L", false, 0, "")
	w.pdf.SetFont("Arial", "", 10)
	w.pdf.MultiCell(0, 5, meta.Summary(), "", "L", false)

	if d := meta.HumanDate(); d != metadata.Unknown {
		w.pdf.MultiCell(0, 5, fmt.Sprintf("Recorded: %s %s", d, meta.HumanTime()), "", "L", false)
	}
	if opts.ShowLocalTime {
		w.pdf.MultiCell(0, 5,
			fmt.Sprintf("Local time (UTC%+d): %s", opts.LocalTimeOffsetHours, meta.LocalTime(opts.LocalTimeOffsetHours)),
			"", "L", false)
	}
	w.pdf.Ln(5)
}

// csvSummary emits one block per CSV file: name, row count, columns.
func (w *pdfWriter) csvSummary(csvs []organize.CSVSummary) {
	if len(csvs) == 0 {
		return
	}
	w.pdf.SetFont("Arial", "B", 12)
	w.pdf.CellFormat(0, 6, "CSV Summary", "", 1, "L", false, 0, "")
	for _, c := range csvs {
		w.pdf.SetFont("Arial", "B", 10)
		w.pdf.CellFormat(0, 5, c.File, "", 1, "L", false, 0, "")
		w.pdf.SetFont("Arial", "", 9)
		w.pdf.MultiCell(0, 4,
			fmt.Sprintf("%d rows | columns: %s", c.Rows, strings.Join(c.Columns, ", ")),
			"", "L", false)
		w.pdf.Ln(1)
	}
	w.pdf.Ln(4)
}

// chapterTitle draws a section heading on a light-gray fill.
func (w *pdfWriter) chapterTitle(title string) {
	w.pdf.SetFont("Arial", "B", 12)
	w.pdf.SetFillColor(220, 220, 220)
	w.pdf.CellFormat(0, 8, title, "", 1, "L", true, 0, "")
	w.pdf.Ln(2)
}

// breakPage starts a new page and re-emits the section title.
func (w *pdfWriter) breakPage(title string) float64 {
	w.pdf.AddPage()
	w.chapterTitle(title + " (cont.)")
	return w.pdf.GetY()
}

// gridSection lays a bucket out on the generic count-dependent grid.
func (w *pdfWriter) gridSection(s Section) {
	w.pdf.AddPage()
	w.chapterTitle(s.Title)
	endY := w.grid(s.Title, s.Files, w.pdf.GetY())
	w.pdf.SetY(endY)
}

// grid places files on the tiered grid starting at startY and returns
// the y cursor after the last row.
func (w *pdfWriter) grid(title string, files []string, startY float64) float64 {
	if len(files) == 0 {
		return startY
	}
	tier := w.geom.TierFor(len(files))
	xStart := w.geom.ContentLeft + w.geom.CenterOffset(tier)
	rowH := w.geom.RowHeight(tier.ImageWidth)

	y := startY
	col := 0
	for _, f := range files {
		if col == tier.Columns {
			col = 0
			y += rowH + w.geom.RowGapY
		}
		if col == 0 && y+rowH > w.geom.PageBreakY {
			y = w.breakPage(title)
		}
		x := xStart + float64(col)*(tier.ImageWidth+w.geom.CellGapX)
		w.placeImage(f, x, y, tier.ImageWidth)
		col++
	}
	return y + rowH + w.geom.RowGapY
}

// psdSection lays out a PSD bucket: full-width plots one per row, then
// LFP/SBP pairs matched by sort position, then any untagged leftovers
// on the generic grid.
func (w *pdfWriter) psdSection(s Section) {
	w.pdf.AddPage()
	w.chapterTitle(s.Title)

	groups := SplitPSD(s.Files)
	y := w.pdf.GetY()

	fullH := w.geom.RowHeight(w.geom.ContentWidth)
	for _, f := range groups.Full {
		if y+fullH > w.geom.PageBreakY {
			y = w.breakPage(s.Title)
		}
		w.placeImage(f, w.geom.ContentLeft, y, w.geom.ContentWidth)
		y += fullH + w.geom.RowGapY
	}
	if len(groups.Full) > 0 && (len(groups.Pairs) > 0 || len(groups.Rest) > 0) {
		y = w.breakPage(s.Title)
	}

	pairW := (w.geom.ContentWidth - w.geom.CellGapX) / 2
	pairH := w.geom.RowHeight(pairW)
	for _, pair := range groups.Pairs {
		if y+pairH > w.geom.PageBreakY {
			y = w.breakPage(s.Title)
		}
		if pair[0] != "" {
			w.placeImage(pair[0], w.geom.ContentLeft, y, pairW)
		}
		if pair[1] != "" {
			w.placeImage(pair[1], w.geom.ContentLeft+pairW+w.geom.CellGapX, y, pairW)
		}
		y += pairH + w.geom.RowGapY
	}

	y = w.grid(s.Title, groups.Rest, y)
	w.pdf.SetY(y)
}

// placeImage embeds one image at x/y with the given width. The file is
// first header-decoded to confirm it is embeddable; failures draw a
// bordered placeholder instead of poisoning the document. Height is
// left to the image's own aspect ratio; the layout cursor always uses
// the fixed-ratio estimate.
func (w *pdfWriter) placeImage(path string, x, y, width float64) {
	if err := validateImage(path); err != nil {
		w.log.Warn("image cannot be embedded, drawing placeholder",
			zap.String("path", path), zap.Error(err))
		w.placeholder(path, x, y, width)
		return
	}
	w.pdf.ImageOptions(path, x, y, width, 0, false, fpdf.ImageOptions{}, 0, "")
	if w.pdf.Err() {
		// fpdf errors are sticky; recover by clearing and substituting.
		w.log.Warn("image embed failed, drawing placeholder",
			zap.String("path", path), zap.Error(w.pdf.Error()))
		w.pdf.ClearError()
		w.placeholder(path, x, y, width)
	}
}

// placeholder draws a bordered cell with the missing file's name.
func (w *pdfWriter) placeholder(path string, x, y, width float64) {
	h := w.geom.RowHeight(width)
	w.pdf.Rect(x, y, width, h, "D")
	w.pdf.SetXY(x, y+h/2-2)
	w.pdf.SetFont("Arial", "I", 7)
	w.pdf.CellFormat(width, 4, "unavailable: "+filepath.Base(path), "", 0, "C", false, 0, "")
}

// validateImage confirms the file header decodes as a supported raster
// format. Only the header is read; dimensions are never used for layout.
func validateImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(f)
	return err
}
