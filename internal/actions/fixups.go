package actions

import (
	"context"
	"fmt"
	"strconv"

	"hepflow/internal/holdingpen"
	"hepflow/internal/models"
)

// FixSubmissionNumber replaces the legacy hepcrawl submission number with the
// holdingpen object id. Records acquired any other way keep theirs.
func FixSubmissionNumber(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
	src := obj.Data.AcquisitionSource
	if src == nil || src.Method != "hepcrawl" {
		return nil
	}
	src.SubmissionNumber = strconv.FormatInt(obj.ID, 10)
	return nil
}

// resolveJournals loads the journal records referenced from publication_info.
// References that do not resolve are skipped.
func (a *Actions) resolveJournals(ctx context.Context, obj *holdingpen.Object) ([]models.JournalRecord, error) {
	var refs []string
	for _, pi := range obj.Data.PublicationInfo {
		if pi.JournalRecord != nil && pi.JournalRecord.Ref != "" {
			refs = append(refs, pi.JournalRecord.Ref)
		}
	}
	if len(refs) == 0 {
		return nil, nil
	}
	journals, err := a.journals.ResolveRefs(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("resolve journal refs: %w", err)
	}
	return journals, nil
}

// PopulateJournalCoverage records the harvesting coverage of the referenced
// journals in scratch state. Full coverage on any journal beats partial on
// the rest; no resolvable journals leaves the key unset.
func (a *Actions) PopulateJournalCoverage(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
	journals, err := a.resolveJournals(ctx, obj)
	if err != nil {
		return err
	}
	if len(journals) == 0 {
		return nil
	}
	coverage := "partial"
	for _, j := range journals {
		if j.HarvestingInfo != nil && j.HarvestingInfo.Coverage == "full" {
			coverage = "full"
			break
		}
	}
	obj.Extra.JournalCoverage = coverage
	return nil
}

// SetRefereedAndFixDocumentType copies the refereed flag from the referenced
// journals onto the record and downgrades the document type to a conference
// paper when any of them publishes proceedings.
func (a *Actions) SetRefereedAndFixDocumentType(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
	journals, err := a.resolveJournals(ctx, obj)
	if err != nil {
		return err
	}
	if len(journals) == 0 {
		return nil
	}
	refereed := false
	proceedings := false
	for _, j := range journals {
		if j.Refereed != nil && *j.Refereed {
			refereed = true
		}
		if j.Proceedings != nil && *j.Proceedings {
			proceedings = true
		}
	}
	obj.Data.Refereed = &refereed
	if proceedings {
		for i, dt := range obj.Data.DocumentType {
			if dt == "article" {
				obj.Data.DocumentType[i] = "conference paper"
				break
			}
		}
	}
	return nil
}
