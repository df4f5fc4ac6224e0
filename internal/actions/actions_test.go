package actions

import (
	"context"
	"errors"
	"testing"

	"hepflow/internal/config"
	"hepflow/internal/holdingpen"
	"hepflow/internal/models"

	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	journals []models.JournalRecord
	err      error
	gotRefs  []string
}

func (s *stubResolver) ResolveRefs(ctx context.Context, refs []string) ([]models.JournalRecord, error) {
	s.gotRefs = append(s.gotRefs, refs...)
	if s.err != nil {
		return nil, s.err
	}
	return s.journals, nil
}

type stubAudit struct {
	entries []models.AuditEntry
	err     error
}

func (s *stubAudit) LogAction(ctx context.Context, e models.AuditEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

type stubExtractor struct {
	refs    []models.Reference
	err     error
	gotPath string
	gotText string
}

func (s *stubExtractor) ExtractFromFile(ctx context.Context, path string) ([]models.Reference, error) {
	s.gotPath = path
	return s.refs, s.err
}

func (s *stubExtractor) ExtractFromText(ctx context.Context, text string) ([]models.Reference, error) {
	s.gotText = text
	return s.refs, s.err
}

func testConfig() config.Config {
	return config.Config{
		HaltAction:  "core_selection",
		HaltMessage: "Submission halted for curator approval.",
	}
}

func boolPtr(b bool) *bool { return &b }

func TestMarkAndIsMarked(t *testing.T) {
	obj := &holdingpen.Object{}
	eng := holdingpen.NewEngine()

	require.False(t, IsMarked("unexpected")(obj))

	require.NoError(t, Mark("unexpected", true)(context.Background(), obj, eng))
	require.True(t, IsMarked("unexpected")(obj))

	require.NoError(t, Mark("unexpected", false)(context.Background(), obj, eng))
	require.False(t, IsMarked("unexpected")(obj))

	require.NoError(t, Mark("batch", "nightly")(context.Background(), obj, eng))
	v, ok := obj.Extra.Flag("batch")
	require.True(t, ok)
	require.Equal(t, "nightly", v)
}

func TestIsRecordAccepted(t *testing.T) {
	obj := &holdingpen.Object{}
	require.False(t, IsRecordAccepted(obj))

	obj.Extra.Approved = boolPtr(false)
	require.False(t, IsRecordAccepted(obj))

	obj.Extra.Approved = boolPtr(true)
	require.True(t, IsRecordAccepted(obj))
}

func TestShallHaltWorkflow(t *testing.T) {
	obj := &holdingpen.Object{}
	require.False(t, ShallHaltWorkflow(obj))

	obj.Extra.SetFlag(holdingpen.KeyHaltWorkflow, true)
	require.True(t, ShallHaltWorkflow(obj))
}

func TestIsAutoRejected(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		keywords []string
		want     bool
	}{
		{"rejected without core keywords", "Rejected", nil, true},
		{"rejected with core keywords", "Rejected", []string{"Higgs particle"}, false},
		{"core decision", "CORE", nil, false},
		{"non core decision", "Non-CORE", []string{"Higgs particle"}, false},
		{"no prediction at all", "", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &holdingpen.Object{}
			if tt.decision != "" {
				obj.Extra.Relevance = &models.RelevancePrediction{
					MaxScore: 0.222113,
					Decision: tt.decision,
				}
			}
			if tt.keywords != nil {
				obj.Extra.Classifier = &holdingpen.ClassifierResults{
					CompleteOutput: holdingpen.ClassifierOutput{CoreKeywords: tt.keywords},
				}
			}
			require.Equal(t, tt.want, isAutoRejected(obj))
		})
	}
}

func TestIsRecordRelevant(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		autoRejected bool
		want         bool
	}{
		{"auto-rejected submission", "submitter", true, false},
		{"accepted submission", "submitter", false, true},
		{"auto-rejected harvest", "hepcrawl", true, true},
		{"accepted harvest", "hepcrawl", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &holdingpen.Object{
				Data: models.HEPRecord{
					AcquisitionSource: &models.AcquisitionSource{Method: tt.method},
				},
			}
			if tt.autoRejected {
				obj.Extra.Relevance = &models.RelevancePrediction{Decision: "Rejected"}
			} else {
				obj.Extra.Relevance = &models.RelevancePrediction{Decision: "CORE"}
			}
			require.Equal(t, tt.want, IsRecordRelevant(obj))
		})
	}
}

func TestIsExperimentalPaper(t *testing.T) {
	tests := []struct {
		name       string
		arxivCats  []string
		inspireCat string
		want       bool
	}{
		{"hep-ex eprint", []string{"hep-ex"}, "", true},
		{"astro-ph subcategory", []string{"astro-ph.CO"}, "", true},
		{"instrumentation eprint", []string{"physics.ins-det"}, "", true},
		{"legacy inspire category", nil, "Experiment-Nucl", true},
		{"theory only", []string{"hep-th"}, "Theory-HEP", false},
		{"theory eprint with experimental inspire term", []string{"math.CO"}, "Instrumentation", true},
		{"empty record", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &holdingpen.Object{}
			if tt.arxivCats != nil {
				obj.Data.ArxivEprints = []models.ArxivEprint{
					{Value: "1802.08709", Categories: tt.arxivCats},
				}
			}
			if tt.inspireCat != "" {
				obj.Data.InspireCategories = []models.InspireCategory{{Term: tt.inspireCat}}
			}
			require.Equal(t, tt.want, IsExperimentalPaper(obj))
		})
	}
}

func TestIsArxivPaper(t *testing.T) {
	obj := &holdingpen.Object{}
	require.False(t, IsArxivPaper(obj))

	obj.Data.ArxivEprints = []models.ArxivEprint{{Value: "1802.08709"}}
	require.True(t, IsArxivPaper(obj))
}

func TestIsSubmission(t *testing.T) {
	obj := &holdingpen.Object{}
	require.False(t, IsSubmission(obj))

	obj.Data.AcquisitionSource = &models.AcquisitionSource{Method: "hepcrawl"}
	require.False(t, IsSubmission(obj))

	obj.Data.AcquisitionSource.Method = "submitter"
	require.True(t, IsSubmission(obj))
}

func TestInProductionMode(t *testing.T) {
	a := New(testConfig(), Deps{})
	require.False(t, a.InProductionMode())

	cfg := testConfig()
	cfg.ProductionMode = true
	a = New(cfg, Deps{})
	require.True(t, a.InProductionMode())
}

func TestAddCore(t *testing.T) {
	eng := holdingpen.NewEngine()

	obj := &holdingpen.Object{}
	require.NoError(t, AddCore(context.Background(), obj, eng))
	require.Nil(t, obj.Data.Core)

	obj.Extra.Core = boolPtr(true)
	require.NoError(t, AddCore(context.Background(), obj, eng))
	require.NotNil(t, obj.Data.Core)
	require.True(t, *obj.Data.Core)

	obj.Extra.Core = boolPtr(false)
	require.NoError(t, AddCore(context.Background(), obj, eng))
	require.NotNil(t, obj.Data.Core)
	require.False(t, *obj.Data.Core)
}

func TestHaltRecordDefaults(t *testing.T) {
	a := New(testConfig(), Deps{})
	obj := &holdingpen.Object{}
	eng := holdingpen.NewEngine()

	require.NoError(t, a.HaltRecord("", "")(context.Background(), obj, eng))

	halt, ok := eng.Halted()
	require.True(t, ok)
	require.Equal(t, "core_selection", halt.Action)
	require.Equal(t, "Submission halted for curator approval.", halt.Message)
}

func TestHaltRecordExplicitArguments(t *testing.T) {
	a := New(testConfig(), Deps{})
	obj := &holdingpen.Object{}
	eng := holdingpen.NewEngine()

	require.NoError(t, a.HaltRecord("merge_approval", "Needs a merge decision.")(context.Background(), obj, eng))

	halt, ok := eng.Halted()
	require.True(t, ok)
	require.Equal(t, "merge_approval", halt.Action)
	require.Equal(t, "Needs a merge decision.", halt.Message)
}

func TestHaltRecordExtraDataOverrides(t *testing.T) {
	a := New(testConfig(), Deps{})
	obj := &holdingpen.Object{}
	obj.Extra.HaltAction = "arxiv_approval"
	obj.Extra.HaltMessage = "Waiting for the arXiv curator."
	eng := holdingpen.NewEngine()

	require.NoError(t, a.HaltRecord("merge_approval", "Needs a merge decision.")(context.Background(), obj, eng))

	halt, ok := eng.Halted()
	require.True(t, ok)
	require.Equal(t, "arxiv_approval", halt.Action)
	require.Equal(t, "Waiting for the arXiv curator.", halt.Message)
}

func TestRejectRecord(t *testing.T) {
	audit := &stubAudit{}
	a := New(testConfig(), Deps{Audit: audit})

	prediction := &models.RelevancePrediction{MaxScore: 0.222113, Decision: "Rejected"}
	obj := &holdingpen.Object{ID: 42}
	obj.Extra.Relevance = prediction
	eng := holdingpen.NewEngine()

	require.NoError(t, a.RejectRecord("Auto-rejected.")(context.Background(), obj, eng))

	require.NotNil(t, obj.Extra.Approved)
	require.False(t, *obj.Extra.Approved)
	require.Equal(t, "Auto-rejected.", obj.Extra.Reason)
	require.Same(t, prediction, obj.Extra.Relevance)

	require.Len(t, obj.Logs, 1)
	require.Equal(t, "Auto-rejected.", obj.Logs[0].Message)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	require.Equal(t, "reject_record", entry.Action)
	require.Equal(t, int64(42), entry.ObjectID)
	require.Nil(t, entry.UserID)
	require.Equal(t, "workflow", entry.Source)
	require.Equal(t, prediction, entry.RelevancePrediction)
}

func TestRejectRecordCarriesUser(t *testing.T) {
	audit := &stubAudit{}
	a := New(testConfig(), Deps{Audit: audit})

	user := int64(7)
	obj := &holdingpen.Object{ID: 42, UserID: &user}
	eng := holdingpen.NewEngine()

	require.NoError(t, a.RejectRecord("Not relevant.")(context.Background(), obj, eng))

	require.Len(t, audit.entries, 1)
	require.NotNil(t, audit.entries[0].UserID)
	require.Equal(t, int64(7), *audit.entries[0].UserID)
}

func TestRejectRecordAuditFailure(t *testing.T) {
	audit := &stubAudit{err: errors.New("audit store down")}
	a := New(testConfig(), Deps{Audit: audit})

	obj := &holdingpen.Object{ID: 42}
	eng := holdingpen.NewEngine()

	err := a.RejectRecord("Not relevant.")(context.Background(), obj, eng)
	require.Error(t, err)
	require.Contains(t, err.Error(), "audit store down")
}
