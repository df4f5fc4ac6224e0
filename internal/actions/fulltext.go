package actions

import (
	"context"
	"fmt"
	"net/http"

	"hepflow/internal/files"
	"hepflow/internal/holdingpen"
	"hepflow/internal/httputil"
	"hepflow/internal/models"
)

// FulltextKey is the storage key for the full-text PDF attached to a record.
const FulltextKey = "fulltext.pdf"

// Refextract extracts references from the attached full text, or from raw
// reference text supplied with the submission when no PDF is attached.
// Every extracted raw reference is tagged with the acquisition source.
// With neither input the step succeeds without touching the record.
func (a *Actions) Refextract(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) error {
	var (
		refs []models.Reference
		err  error
	)
	switch {
	case obj.BucketID != "" && a.files.Exists(obj.BucketID, FulltextKey):
		path, perr := a.files.Path(obj.BucketID, FulltextKey)
		if perr != nil {
			return fmt.Errorf("locate %s: %w", FulltextKey, perr)
		}
		refs, err = a.extractor.ExtractFromFile(ctx, path)
		if err != nil {
			return fmt.Errorf("extract references from file: %w", err)
		}
	case obj.Extra.Formdata != nil && obj.Extra.Formdata.References != "":
		refs, err = a.extractor.ExtractFromText(ctx, obj.Extra.Formdata.References)
		if err != nil {
			return fmt.Errorf("extract references from text: %w", err)
		}
	default:
		a.log.Debugw("no full text or raw references to extract from", "object_id", obj.ID)
		return nil
	}

	source := ""
	if obj.Data.AcquisitionSource != nil {
		source = obj.Data.AcquisitionSource.Source
	}
	for i := range refs {
		for j := range refs[i].RawRefs {
			refs[i].RawRefs[j].Source = source
		}
	}
	obj.Data.References = append(obj.Data.References, refs...)
	a.log.Infow("references extracted", "object_id", obj.ID, "count", len(refs))
	return nil
}

// SubmissionFulltextDownload fetches the PDF the submitter pointed at, stores
// it under the record's bucket and links it from documents. Repeat calls
// replace the stored content and keep a single documents entry for the key.
// It returns the storage key, or "" when there is nothing to download.
func (a *Actions) SubmissionFulltextDownload(ctx context.Context, obj *holdingpen.Object, eng *holdingpen.Engine) (string, error) {
	url := obj.Extra.SubmissionPDF
	if url == "" {
		return "", nil
	}
	if obj.BucketID == "" {
		bucket, err := a.files.NewBucket()
		if err != nil {
			return "", fmt.Errorf("create bucket: %w", err)
		}
		obj.BucketID = bucket
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build fulltext request: %w", err)
	}
	resp, err := httputil.DoWithRetry(ctx, a.client, req, 0)
	if err != nil {
		obj.LogError(fmt.Sprintf("cannot download submission full text from %s", url))
		return "", fmt.Errorf("download submission full text: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		obj.LogError(fmt.Sprintf("cannot download submission full text from %s: status %d", url, resp.StatusCode))
		return "", fmt.Errorf("download submission full text: status %d", resp.StatusCode)
	}

	info, err := a.files.Put(obj.BucketID, FulltextKey, resp.Body)
	if err != nil {
		return "", fmt.Errorf("store submission full text: %w", err)
	}

	source := ""
	if obj.Data.AcquisitionSource != nil {
		source = obj.Data.AcquisitionSource.Source
	}
	docs := obj.Data.Documents[:0]
	for _, d := range obj.Data.Documents {
		if d.Key != FulltextKey {
			docs = append(docs, d)
		}
	}
	obj.Data.Documents = append(docs, models.Document{
		Key:         FulltextKey,
		URL:         files.APIPath(obj.BucketID, FulltextKey),
		Source:      source,
		Fulltext:    true,
		OriginalURL: url,
	})
	obj.Log(fmt.Sprintf("full text downloaded from %s", url))
	a.log.Infow("submission full text stored",
		"object_id", obj.ID, "bucket_id", obj.BucketID, "size", info.Size)
	return FulltextKey, nil
}
