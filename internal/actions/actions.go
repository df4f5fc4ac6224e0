// Package actions holds the step functions the article workflow runs over
// holdingpen objects: marking, acceptance and relevance decisions, category
// classification, metadata fixups and full-text acquisition.
package actions

import (
	"context"
	"net/http"

	"hepflow/internal/config"
	"hepflow/internal/files"
	"hepflow/internal/holdingpen"
	"hepflow/internal/models"
	"hepflow/internal/refextract"

	"go.uber.org/zap"
)

// StepFunc mutates the object in place. Errors abort the surrounding workflow
// step and leave retry policy to the engine.
type StepFunc func(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error

// PredicateFunc answers a yes/no question about an object without touching it.
type PredicateFunc func(obj *holdingpen.Object) bool

// JournalResolver looks up the journal records behind journal_record $refs.
type JournalResolver interface {
	ResolveRefs(ctx context.Context, refs []string) ([]models.JournalRecord, error)
}

// AuditLogger records curation decisions for later review.
type AuditLogger interface {
	LogAction(ctx context.Context, e models.AuditEntry) error
}

// Actions bundles the collaborators the non-pure steps need.
type Actions struct {
	productionMode bool
	haltAction     string
	haltMessage    string
	journals       JournalResolver
	audit          AuditLogger
	files          *files.Store
	extractor      refextract.Extractor
	client         *http.Client
	log            *zap.SugaredLogger
}

type Deps struct {
	Journals  JournalResolver
	Audit     AuditLogger
	Files     *files.Store
	Extractor refextract.Extractor
	Client    *http.Client
	Log       *zap.SugaredLogger
}

func New(cfg config.Config, deps Deps) *Actions {
	a := &Actions{
		productionMode: cfg.ProductionMode,
		haltAction:     cfg.HaltAction,
		haltMessage:    cfg.HaltMessage,
		journals:       deps.Journals,
		audit:          deps.Audit,
		files:          deps.Files,
		extractor:      deps.Extractor,
		client:         deps.Client,
		log:            deps.Log,
	}
	if a.client == nil {
		a.client = http.DefaultClient
	}
	if a.log == nil {
		a.log = zap.NewNop().Sugar()
	}
	return a
}

// InProductionMode reports the injected deployment flag. Steps that push to
// external systems consult it instead of any process-wide state.
func (a *Actions) InProductionMode() bool {
	return a.productionMode
}
