package refextract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"hepflow/internal/httputil"
	"hepflow/internal/models"
)

// Service calls a standalone reference-extraction service. The service accepts
// raw text or PDF bytes and answers with reference entries in record shape.
type Service struct {
	URL    string
	Client *http.Client
}

type serviceResponse struct {
	References []models.Reference `json:"references"`
}

func (s *Service) ExtractFromText(ctx context.Context, text string) ([]models.Reference, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode refextract request: %w", err)
	}
	return s.post(ctx, "/extract_references_from_text", "application/json", bytes.NewReader(body))
}

func (s *Service) ExtractFromFile(ctx context.Context, path string) ([]models.Reference, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf for refextract: %w", err)
	}
	return s.post(ctx, "/extract_references_from_file", "application/pdf", bytes.NewReader(b))
}

func (s *Service) post(ctx context.Context, endpoint, contentType string, body *bytes.Reader) ([]models.Reference, error) {
	url := strings.TrimRight(s.URL, "/") + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build refextract request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("call refextract service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("refextract service %s: status %d", endpoint, resp.StatusCode)
	}

	var out serviceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode refextract response: %w", err)
	}
	// Drop entries the service could not shape into a raw reference.
	refs := out.References[:0]
	for _, ref := range out.References {
		if len(ref.RawRefs) == 0 {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
