package refextract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hepflow/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSplitReferenceLinesNumbered(t *testing.T) {
	text := `Introduction text that is not part of the bibliography.

References

[1] S. Chatrchyan et al., Observation of a new boson at a mass of 125 GeV,
    Phys. Lett. B 716 (2012) 30.
[2] G. Aad et al., Observation of a new particle in the search for the
    Standard Model Higgs boson, Phys. Lett. B 716 (2012) 1.
`
	lines := splitReferenceLines(text)
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "[1] S. Chatrchyan")
	require.Contains(t, lines[0], "Phys. Lett. B 716 (2012) 30.")
	require.Contains(t, lines[1], "[2] G. Aad")
}

func TestSplitReferenceLinesUnnumbered(t *testing.T) {
	text := "U. Fano, Effects of Configuration Interaction, Phys. Rev. 124 (1961) 1866.\nAnother citation line long enough to keep."
	lines := splitReferenceLines(text)
	require.Len(t, lines, 2)
	require.Equal(t, "U. Fano, Effects of Configuration Interaction, Phys. Rev. 124 (1961) 1866.", lines[0])
}

func TestSplitReferenceLinesDropsNoise(t *testing.T) {
	lines := splitReferenceLines("References\n\nibid.\n42\n")
	require.Empty(t, lines)
}

func TestLocalExtractFromText(t *testing.T) {
	refs, err := Local{}.ExtractFromText(context.Background(), "[1] First reference entry long enough.\n[2] Second reference entry long enough.")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.Equal(t, "text", refs[0].RawRefs[0].Schema)
	require.Empty(t, refs[0].RawRefs[0].Source)
	require.Contains(t, refs[0].RawRefs[0].Value, "First reference")
}

func TestServiceExtractFromText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/extract_references_from_text", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req["text"])

		resp := serviceResponse{References: []models.Reference{
			{RawRefs: []models.RawRef{{Schema: "text", Value: "[37] M. Vallisneri, Findchirp."}}},
			{},
		}}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer ts.Close()

	svc := &Service{URL: ts.URL, Client: ts.Client()}
	refs, err := svc.ExtractFromText(context.Background(), "[37] M. Vallisneri, Findchirp.")
	require.NoError(t, err)
	require.Len(t, refs, 1, "entries without raw_refs are dropped")
	require.Equal(t, "[37] M. Vallisneri, Findchirp.", refs[0].RawRefs[0].Value)
}

func TestServiceErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	svc := &Service{URL: ts.URL, Client: ts.Client()}
	_, err := svc.ExtractFromText(context.Background(), "whatever")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 400")
}

func TestFromConfig(t *testing.T) {
	require.IsType(t, Local{}, FromConfig("local", "", nil))
	require.IsType(t, Local{}, FromConfig("service", "", nil), "service mode without URL falls back")
	require.IsType(t, &Service{}, FromConfig("service", "http://refextract:5000", nil))
}
