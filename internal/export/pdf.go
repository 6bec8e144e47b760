package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfImageName = "drawing"

// PDF writes a one-page document the size of the canvas, one point per
// pixel, with the raster snapshot covering the page.
func PDF(w io.Writer, d Drawing) error {
	var img bytes.Buffer
	if err := PNG(&img, d); err != nil {
		return err
	}

	wd, ht := float64(d.Width), float64(d.Height)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: wd, Ht: ht},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.SetCreator("LocalSketch", true)
	if d.Title != "" {
		p.SetTitle(d.Title, true)
	}
	p.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(pdfImageName, opts, &img)
	p.ImageOptions(pdfImageName, 0, 0, wd, ht, false, opts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
