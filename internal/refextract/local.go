package refextract

import (
	"context"
	"fmt"
	"io"
	"strings"

	"hepflow/internal/models"
	"hepflow/internal/util"

	"github.com/ledongthuc/pdf"
)

// Local extracts references in-process: PDF text via the pdf library, then the
// shared line splitter.
type Local struct{}

func (Local) ExtractFromFile(_ context.Context, path string) ([]models.Reference, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return nil, fmt.Errorf("read extracted text: %w", err)
	}
	text := util.SanitizeText(strings.TrimSpace(buf.String()))
	if text == "" {
		return nil, util.ErrNoExtractableText
	}
	return toReferences(splitReferenceLines(text)), nil
}

func (Local) ExtractFromText(_ context.Context, text string) ([]models.Reference, error) {
	return toReferences(splitReferenceLines(text)), nil
}
