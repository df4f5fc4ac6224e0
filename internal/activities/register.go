package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ValidateRecordActivity)
	w.RegisterActivity(a.ClassifyRecordActivity)
	w.RegisterActivity(a.DownloadSubmissionFulltextActivity)
	w.RegisterActivity(a.ExtractReferencesActivity)
	w.RegisterActivity(a.FixSubmissionNumberActivity)
	w.RegisterActivity(a.PopulateJournalCoverageActivity)
	w.RegisterActivity(a.SetRefereedAndFixDocumentTypeActivity)
	w.RegisterActivity(a.CheckRelevanceActivity)
	w.RegisterActivity(a.HaltForApprovalActivity)
	w.RegisterActivity(a.ResolveDecisionActivity)
	w.RegisterActivity(a.RejectRecordActivity)
	w.RegisterActivity(a.AcceptRecordActivity)
	w.RegisterActivity(a.PushRecordActivity)
	w.RegisterActivity(a.CompleteObjectActivity)
	w.RegisterActivity(a.MarkErrorActivity)
}
