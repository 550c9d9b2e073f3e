package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// PageRenderer rasterizes PDF pages to PNG using the pdftoppm CLI tool,
// for documents whose text layer is empty or unusable.
type PageRenderer struct {
	binPath string
}

// NewPageRenderer creates a PageRenderer. If binPath is empty, "pdftoppm" is used.
func NewPageRenderer(binPath string) *PageRenderer {
	if binPath == "" {
		binPath = "pdftoppm"
	}
	return &PageRenderer{binPath: binPath}
}

// RenderPages rasterizes up to maxPages pages starting from page 1 and
// returns each page as PNG bytes, in page order. The page cap bounds
// vision-model latency and cost for long documents.
func (r *PageRenderer) RenderPages(ctx context.Context, pdfPath string, maxPages int) ([][]byte, error) {
	if maxPages <= 0 {
		maxPages = 1
	}

	tmpDir, err := os.MkdirTemp("", "certassist-render-*")
	if err != nil {
		return nil, eris.Wrap(err, "ocr: create render dir")
	}
	defer os.RemoveAll(tmpDir) //nolint:errcheck

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, r.binPath,
		"-png", "-r", "150",
		"-f", "1", "-l", strconv.Itoa(maxPages),
		pdfPath, prefix)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, eris.Wrapf(err, "ocr: pdftoppm failed for %s: %s", pdfPath, stderr.String())
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, eris.Wrap(err, "ocr: glob rendered pages")
	}
	if len(matches) == 0 {
		return nil, eris.Errorf("ocr: pdftoppm produced no pages for %s", pdfPath)
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(matches)

	pages := make([][]byte, 0, len(matches))
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ocr: read rendered page %s", path)
		}
		pages = append(pages, data)
	}
	return pages, nil
}
