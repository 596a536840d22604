package gallery

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders a printable index of p: one entry per pair with clickable
// links to the share page and the thumbnail. Images are not embedded.
func WritePDF(p Page, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.AddPage()
	pdf.CellFormat(0, 8, p.Title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	if p.Mismatch() {
		pdf.MultiCell(0, 5, fmt.Sprintf("Found %d video URLs but %d thumbnails.", p.Videos, p.Thumbs), "", "L", false)
	}
	if len(p.Pairs) == 0 {
		pdf.MultiCell(0, 5, "No videos to display.", "", "L", false)
		return pdf.OutputFileAndClose(outPath)
	}
	pdf.MultiCell(0, 5, fmt.Sprintf("Showing %d videos", len(p.Pairs)), "", "L", false)
	pdf.Ln(3)

	for _, pair := range p.Pairs {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("Video #%d", pair.Number), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.Write(5, "Page: ")
		pdf.WriteLinkString(5, pair.Video, pair.Video)
		pdf.Ln(5)
		pdf.Write(5, "Thumbnail: ")
		pdf.WriteLinkString(5, pair.Thumbnail, pair.Thumbnail)
		pdf.Ln(7)
	}

	return pdf.OutputFileAndClose(outPath)
}
