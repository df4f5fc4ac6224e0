package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hepflow/internal/actions"
	"hepflow/internal/config"
	"hepflow/internal/files"
	"hepflow/internal/holdingpen"
	"hepflow/internal/httputil"
	"hepflow/internal/refextract"
	"hepflow/internal/schema"
	"hepflow/internal/storage"

	"go.temporal.io/sdk/temporal"
	"go.uber.org/zap"
)

type Activities struct {
	cfg     config.Config
	objects *storage.ObjectRepo
	records *storage.RecordRepo
	schemas *schema.Registry
	files   *files.Store
	actions *actions.Actions
	client  *http.Client
	log     *zap.SugaredLogger
}

func New(cfg config.Config, db *storage.DB, log *zap.SugaredLogger) (*Activities, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	store, err := files.NewStore(cfg.FilesRoot)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	schemas, err := schema.Load()
	if err != nil {
		return nil, fmt.Errorf("load record schemas: %w", err)
	}
	client := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second}
	acts := actions.New(cfg, actions.Deps{
		Journals:  storage.NewJournalRepo(db),
		Audit:     storage.NewAuditRepo(db),
		Files:     store,
		Extractor: refextract.FromConfig(cfg.RefextractMode, cfg.RefextractURL, client),
		Client:    client,
		Log:       log,
	})
	return &Activities{
		cfg:     cfg,
		objects: storage.NewObjectRepo(db),
		records: storage.NewRecordRepo(db),
		schemas: schemas,
		files:   store,
		actions: acts,
		client:  client,
		log:     log,
	}, nil
}

// runStep loads the object, applies one step and saves the result. A halt
// recorded by the step parks the object before the save.
func (a *Activities) runStep(ctx context.Context, objectID int64, step actions.StepFunc) (holdingpen.Object, *holdingpen.HaltRequest, error) {
	obj, err := a.objects.Get(ctx, objectID)
	if err != nil {
		return holdingpen.Object{}, nil, err
	}
	eng := holdingpen.NewEngine()
	if err := step(ctx, &obj, eng); err != nil {
		return holdingpen.Object{}, nil, err
	}
	var haltReq *holdingpen.HaltRequest
	if halt, ok := eng.Halted(); ok {
		obj.Status = holdingpen.StatusHalted
		obj.Log(halt.Message)
		haltReq = &halt
	}
	if err := a.objects.Save(ctx, obj); err != nil {
		return holdingpen.Object{}, nil, err
	}
	return obj, haltReq, nil
}

// upstreamError wraps a failure from an outside service. Classes another
// attempt cannot fix become non-retryable application errors; rate-limit and
// transient classes pass through for the activity retry policy.
func upstreamError(kind string, err error) error {
	if httputil.ClassifyError(err).Retryable() {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), kind, err)
}

func (a *Activities) ValidateRecordActivity(ctx context.Context, in ValidateRecordInput) error {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return err
	}
	if err := a.schemas.Validate(schema.NameHEP, obj.Data); err != nil {
		obj.LogError(fmt.Sprintf("record does not validate: %v", err))
		if saveErr := a.objects.Save(ctx, obj); saveErr != nil {
			return saveErr
		}
		return temporal.NewNonRetryableApplicationError("record does not validate against the hep schema", "SchemaValidation", err)
	}
	return nil
}

func (a *Activities) ClassifyRecordActivity(ctx context.Context, in ClassifyRecordInput) (ClassifyRecordOutput, error) {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return ClassifyRecordOutput{}, err
	}
	out := ClassifyRecordOutput{
		Arxiv:        actions.IsArxivPaper(&obj),
		Submission:   actions.IsSubmission(&obj),
		Experimental: actions.IsExperimentalPaper(&obj),
	}
	eng := holdingpen.NewEngine()
	marks := []struct {
		key string
		val bool
	}{
		{"arxiv", out.Arxiv},
		{"submission", out.Submission},
		{"experimental", out.Experimental},
	}
	for _, m := range marks {
		if err := actions.Mark(m.key, m.val)(ctx, &obj, eng); err != nil {
			return ClassifyRecordOutput{}, err
		}
	}
	if err := a.objects.Save(ctx, obj); err != nil {
		return ClassifyRecordOutput{}, err
	}
	return out, nil
}

func (a *Activities) DownloadSubmissionFulltextActivity(ctx context.Context, in DownloadSubmissionFulltextInput) (DownloadSubmissionFulltextOutput, error) {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return DownloadSubmissionFulltextOutput{}, err
	}
	eng := holdingpen.NewEngine()
	key, err := a.actions.SubmissionFulltextDownload(ctx, &obj, eng)
	if err != nil {
		// Keep the curator-visible download failure in the object log.
		if saveErr := a.objects.Save(ctx, obj); saveErr != nil {
			a.log.Errorw("save object after failed download", "object_id", obj.ID, "error", saveErr)
		}
		return DownloadSubmissionFulltextOutput{}, upstreamError("FulltextDownload", err)
	}
	if err := a.objects.Save(ctx, obj); err != nil {
		return DownloadSubmissionFulltextOutput{}, err
	}
	return DownloadSubmissionFulltextOutput{Key: key}, nil
}

func (a *Activities) ExtractReferencesActivity(ctx context.Context, in ExtractReferencesInput) (ExtractReferencesOutput, error) {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return ExtractReferencesOutput{}, err
	}
	before := len(obj.Data.References)
	eng := holdingpen.NewEngine()
	if err := a.actions.Refextract(ctx, &obj, eng); err != nil {
		return ExtractReferencesOutput{}, upstreamError("Refextract", err)
	}
	if err := a.objects.Save(ctx, obj); err != nil {
		return ExtractReferencesOutput{}, err
	}
	return ExtractReferencesOutput{Count: len(obj.Data.References) - before}, nil
}

func (a *Activities) FixSubmissionNumberActivity(ctx context.Context, in FixSubmissionNumberInput) error {
	_, _, err := a.runStep(ctx, in.ObjectID, actions.FixSubmissionNumber)
	return err
}

func (a *Activities) PopulateJournalCoverageActivity(ctx context.Context, in PopulateJournalCoverageInput) (PopulateJournalCoverageOutput, error) {
	obj, _, err := a.runStep(ctx, in.ObjectID, a.actions.PopulateJournalCoverage)
	if err != nil {
		return PopulateJournalCoverageOutput{}, err
	}
	return PopulateJournalCoverageOutput{Coverage: obj.Extra.JournalCoverage}, nil
}

func (a *Activities) SetRefereedAndFixDocumentTypeActivity(ctx context.Context, in SetRefereedInput) error {
	_, _, err := a.runStep(ctx, in.ObjectID, a.actions.SetRefereedAndFixDocumentType)
	return err
}

func (a *Activities) CheckRelevanceActivity(ctx context.Context, in CheckRelevanceInput) (CheckRelevanceOutput, error) {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return CheckRelevanceOutput{}, err
	}
	return CheckRelevanceOutput{
		Relevant: actions.IsRecordRelevant(&obj),
		Accepted: actions.IsRecordAccepted(&obj),
		Halt:     actions.ShallHaltWorkflow(&obj),
	}, nil
}

func (a *Activities) HaltForApprovalActivity(ctx context.Context, in HaltForApprovalInput) (HaltForApprovalOutput, error) {
	_, halt, err := a.runStep(ctx, in.ObjectID, a.actions.HaltRecord("", ""))
	if err != nil {
		return HaltForApprovalOutput{}, err
	}
	if halt == nil {
		return HaltForApprovalOutput{}, fmt.Errorf("halt step recorded no halt request")
	}
	return HaltForApprovalOutput{Action: halt.Action, Message: halt.Message}, nil
}

func (a *Activities) ResolveDecisionActivity(ctx context.Context, in ResolveDecisionInput) error {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return err
	}
	approved := in.Approved
	obj.Extra.Approved = &approved
	if in.Core != nil {
		core := *in.Core
		obj.Extra.Core = &core
	}
	if in.Reason != "" {
		obj.Extra.Reason = in.Reason
	}
	obj.Status = holdingpen.StatusRunning
	obj.Log(fmt.Sprintf("curator resolution received: approved=%t", in.Approved))
	return a.objects.Save(ctx, obj)
}

func (a *Activities) RejectRecordActivity(ctx context.Context, in RejectRecordInput) error {
	_, _, err := a.runStep(ctx, in.ObjectID, a.actions.RejectRecord(in.Reason))
	return err
}

func (a *Activities) AcceptRecordActivity(ctx context.Context, in AcceptRecordInput) (AcceptRecordOutput, error) {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return AcceptRecordOutput{}, err
	}
	eng := holdingpen.NewEngine()
	if err := actions.AddCore(ctx, &obj, eng); err != nil {
		return AcceptRecordOutput{}, err
	}
	if err := a.schemas.Validate(schema.NameHEP, obj.Data); err != nil {
		obj.LogError(fmt.Sprintf("accepted record does not validate: %v", err))
		if saveErr := a.objects.Save(ctx, obj); saveErr != nil {
			return AcceptRecordOutput{}, saveErr
		}
		return AcceptRecordOutput{}, temporal.NewNonRetryableApplicationError("accepted record does not validate against the hep schema", "SchemaValidation", err)
	}
	controlNumber, err := a.records.Insert(ctx, obj.Data)
	if err != nil {
		return AcceptRecordOutput{}, fmt.Errorf("store accepted record: %w", err)
	}
	obj.Data.ControlNumber = controlNumber
	obj.Log(fmt.Sprintf("record stored with control number %d", controlNumber))
	if err := a.objects.Save(ctx, obj); err != nil {
		return AcceptRecordOutput{}, err
	}
	return AcceptRecordOutput{ControlNumber: controlNumber}, nil
}

func (a *Activities) PushRecordActivity(ctx context.Context, in PushRecordInput) (PushRecordOutput, error) {
	if !a.actions.InProductionMode() {
		a.log.Debugw("production mode off, skipping upstream push", "object_id", in.ObjectID)
		return PushRecordOutput{}, nil
	}
	if a.cfg.LegacyPushURL == "" {
		return PushRecordOutput{}, temporal.NewNonRetryableApplicationError("production mode with no push url configured", "Config", nil)
	}
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return PushRecordOutput{}, err
	}
	body, err := json.Marshal(obj.Data)
	if err != nil {
		return PushRecordOutput{}, fmt.Errorf("encode record for push: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.LegacyPushURL, bytes.NewReader(body))
	if err != nil {
		return PushRecordOutput{}, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := httputil.DoWithRetry(ctx, a.client, req, 0)
	if err != nil {
		return PushRecordOutput{}, upstreamError("LegacyPush", fmt.Errorf("push record upstream: %w", err))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PushRecordOutput{}, upstreamError("LegacyPush", fmt.Errorf("push record upstream: status %d", resp.StatusCode))
	}
	obj.Log("record pushed upstream")
	if err := a.objects.Save(ctx, obj); err != nil {
		return PushRecordOutput{}, err
	}
	return PushRecordOutput{Pushed: true}, nil
}

func (a *Activities) CompleteObjectActivity(ctx context.Context, in CompleteObjectInput) error {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return err
	}
	obj.Status = holdingpen.StatusCompleted
	obj.Log("workflow completed: " + in.Result)
	return a.objects.Save(ctx, obj)
}

func (a *Activities) MarkErrorActivity(ctx context.Context, in MarkErrorInput) error {
	obj, err := a.objects.Get(ctx, in.ObjectID)
	if err != nil {
		return err
	}
	obj.Status = holdingpen.StatusError
	obj.LogError(in.Reason)
	return a.objects.Save(ctx, obj)
}
