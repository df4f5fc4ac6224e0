package workflows

import (
	"time"

	"hepflow/internal/activities"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	QueryGetArticleStatus = "GetArticleStatus"
	SignalResolution      = "resolution"
)

const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
)

const (
	autoRejectReason    = "Article automatically rejected"
	curatorRejectReason = "Rejected in curator review."
)

// ArticleWorkflow curates one holdingpen object: validate, classify, acquire
// full text, fix up metadata, then either auto-reject or park the object for
// a curator and act on the resolution signal.
func ArticleWorkflow(ctx workflow.Context, input ArticleInput) (string, error) {
	progress := ArticleProgress{
		ObjectID:    input.ObjectID,
		CurrentStep: "init",
		Status:      "running",
		Steps:       map[string]string{},
	}
	if err := workflow.SetQueryHandler(ctx, QueryGetArticleStatus, func() (ArticleProgress, error) {
		return progress, nil
	}); err != nil {
		return "", err
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    20 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	fail := func(step string, err error) (string, error) {
		progress.Status = "error"
		progress.Steps[step] = "failed"
		_ = workflow.ExecuteActivity(ctx, "MarkErrorActivity", activities.MarkErrorInput{
			ObjectID: input.ObjectID,
			Reason:   err.Error(),
		}).Get(ctx, nil)
		return "", err
	}

	finish := func(result string) (string, error) {
		progress.CurrentStep = "complete"
		progress.Steps["complete"] = "processing"
		if err := workflow.ExecuteActivity(ctx, "CompleteObjectActivity", activities.CompleteObjectInput{
			ObjectID: input.ObjectID,
			Result:   result,
		}).Get(ctx, nil); err != nil {
			return fail("complete", err)
		}
		progress.Steps["complete"] = "done"
		progress.Status = "completed"
		progress.Result = result
		return result, nil
	}

	reject := func(reason string) (string, error) {
		progress.CurrentStep = "reject"
		progress.Steps["reject"] = "processing"
		if err := workflow.ExecuteActivity(ctx, "RejectRecordActivity", activities.RejectRecordInput{
			ObjectID: input.ObjectID,
			Reason:   reason,
		}).Get(ctx, nil); err != nil {
			return fail("reject", err)
		}
		progress.Steps["reject"] = "done"
		return finish(ResultRejected)
	}

	progress.CurrentStep = "validate"
	progress.Steps["validate"] = "processing"
	if err := workflow.ExecuteActivity(ctx, "ValidateRecordActivity", activities.ValidateRecordInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
		return fail("validate", err)
	}
	progress.Steps["validate"] = "done"

	progress.CurrentStep = "classify"
	progress.Steps["classify"] = "processing"
	var classOut activities.ClassifyRecordOutput
	if err := workflow.ExecuteActivity(ctx, "ClassifyRecordActivity", activities.ClassifyRecordInput{ObjectID: input.ObjectID}).Get(ctx, &classOut); err != nil {
		return fail("classify", err)
	}
	progress.Arxiv = classOut.Arxiv
	progress.Submission = classOut.Submission
	progress.Experimental = classOut.Experimental
	progress.Steps["classify"] = "done"

	if classOut.Submission {
		progress.CurrentStep = "download_fulltext"
		progress.Steps["download_fulltext"] = "processing"
		if err := workflow.ExecuteActivity(ctx, "DownloadSubmissionFulltextActivity", activities.DownloadSubmissionFulltextInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
			return fail("download_fulltext", err)
		}
		progress.Steps["download_fulltext"] = "done"
	}

	if classOut.Submission || classOut.Arxiv {
		progress.CurrentStep = "extract_references"
		progress.Steps["extract_references"] = "processing"
		if err := workflow.ExecuteActivity(ctx, "ExtractReferencesActivity", activities.ExtractReferencesInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
			return fail("extract_references", err)
		}
		progress.Steps["extract_references"] = "done"
	}

	progress.CurrentStep = "fixups"
	progress.Steps["fixups"] = "processing"
	if err := workflow.ExecuteActivity(ctx, "FixSubmissionNumberActivity", activities.FixSubmissionNumberInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
		return fail("fixups", err)
	}
	if err := workflow.ExecuteActivity(ctx, "PopulateJournalCoverageActivity", activities.PopulateJournalCoverageInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
		return fail("fixups", err)
	}
	if err := workflow.ExecuteActivity(ctx, "SetRefereedAndFixDocumentTypeActivity", activities.SetRefereedInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
		return fail("fixups", err)
	}
	progress.Steps["fixups"] = "done"

	progress.CurrentStep = "relevance"
	progress.Steps["relevance"] = "processing"
	var rel activities.CheckRelevanceOutput
	if err := workflow.ExecuteActivity(ctx, "CheckRelevanceActivity", activities.CheckRelevanceInput{ObjectID: input.ObjectID}).Get(ctx, &rel); err != nil {
		return fail("relevance", err)
	}
	progress.Relevant = rel.Relevant
	progress.Steps["relevance"] = "done"

	if !rel.Relevant {
		return reject(autoRejectReason)
	}

	approved := rel.Accepted
	reason := ""
	if !approved || rel.Halt {
		progress.CurrentStep = "halt"
		progress.Steps["halt"] = "processing"
		var halt activities.HaltForApprovalOutput
		if err := workflow.ExecuteActivity(ctx, "HaltForApprovalActivity", activities.HaltForApprovalInput{ObjectID: input.ObjectID}).Get(ctx, &halt); err != nil {
			return fail("halt", err)
		}
		progress.Status = "halted"
		progress.HaltAction = halt.Action
		progress.HaltMessage = halt.Message

		var resolution Resolution
		workflow.GetSignalChannel(ctx, SignalResolution).Receive(ctx, &resolution)
		progress.Status = "running"
		progress.Steps["halt"] = "done"

		if err := workflow.ExecuteActivity(ctx, "ResolveDecisionActivity", activities.ResolveDecisionInput{
			ObjectID: input.ObjectID,
			Approved: resolution.Approved,
			Core:     resolution.Core,
			Reason:   resolution.Reason,
		}).Get(ctx, nil); err != nil {
			return fail("halt", err)
		}
		approved = resolution.Approved
		reason = resolution.Reason
	}

	if !approved {
		if reason == "" {
			reason = curatorRejectReason
		}
		return reject(reason)
	}

	progress.CurrentStep = "store"
	progress.Steps["store"] = "processing"
	var accept activities.AcceptRecordOutput
	if err := workflow.ExecuteActivity(ctx, "AcceptRecordActivity", activities.AcceptRecordInput{ObjectID: input.ObjectID}).Get(ctx, &accept); err != nil {
		return fail("store", err)
	}
	progress.ControlNumber = accept.ControlNumber
	progress.Steps["store"] = "done"

	progress.CurrentStep = "push"
	progress.Steps["push"] = "processing"
	if err := workflow.ExecuteActivity(ctx, "PushRecordActivity", activities.PushRecordInput{ObjectID: input.ObjectID}).Get(ctx, nil); err != nil {
		return fail("push", err)
	}
	progress.Steps["push"] = "done"

	return finish(ResultAccepted)
}
