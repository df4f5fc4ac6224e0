package models

// HEPRecord is the bibliographic document curated by the holdingpen. Optional
// fields stay absent (nil) rather than zero so fixups can tell "unset" from
// "set to false".
type HEPRecord struct {
	ControlNumber     int64              `json:"control_number,omitempty"`
	Titles            []Title            `json:"titles,omitempty"`
	DocumentType      []string           `json:"document_type,omitempty"`
	Core              *bool              `json:"core,omitempty"`
	Refereed          *bool              `json:"refereed,omitempty"`
	AcquisitionSource *AcquisitionSource `json:"acquisition_source,omitempty"`
	ArxivEprints      []ArxivEprint      `json:"arxiv_eprints,omitempty"`
	InspireCategories []InspireCategory  `json:"inspire_categories,omitempty"`
	PublicationInfo   []PublicationInfo  `json:"publication_info,omitempty"`
	References        []Reference        `json:"references,omitempty"`
	Documents         []Document         `json:"documents,omitempty"`
}

type Title struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Source   string `json:"source,omitempty"`
}

type AcquisitionSource struct {
	Method           string `json:"method,omitempty"`
	Source           string `json:"source,omitempty"`
	SubmissionNumber string `json:"submission_number,omitempty"`
	Email            string `json:"email,omitempty"`
	Datetime         string `json:"datetime,omitempty"`
}

type ArxivEprint struct {
	Value      string   `json:"value"`
	Categories []string `json:"categories,omitempty"`
}

type InspireCategory struct {
	Term   string `json:"term"`
	Source string `json:"source,omitempty"`
}

type PublicationInfo struct {
	JournalTitle  string `json:"journal_title,omitempty"`
	JournalVolume string `json:"journal_volume,omitempty"`
	ArtID         string `json:"artid,omitempty"`
	PageStart     string `json:"page_start,omitempty"`
	Year          int    `json:"year,omitempty"`
	JournalRecord *Ref   `json:"journal_record,omitempty"`
}

// Ref is a JSON reference to another record, e.g.
// {"$ref": "http://localhost:8080/api/journals/1213103"}.
type Ref struct {
	Ref string `json:"$ref"`
}

type Reference struct {
	RawRefs []RawRef `json:"raw_refs,omitempty"`
}

type RawRef struct {
	Schema string `json:"schema"`
	Source string `json:"source,omitempty"`
	Value  string `json:"value"`
}

// Document is a file attached to a record. URL is the retrieval path served by
// the files API; OriginalURL is where the content was fetched from.
type Document struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Source      string `json:"source,omitempty"`
	Fulltext    bool   `json:"fulltext,omitempty"`
	OriginalURL string `json:"original_url,omitempty"`
}

// JournalRecord is an entry of the journals collection, resolved from
// publication_info[*].journal_record references. The yaml tags cover the seed
// fixtures read by hepflowctl.
type JournalRecord struct {
	JournalTitle   string          `json:"journal_title,omitempty" yaml:"journal_title,omitempty"`
	ShortTitle     string          `json:"short_title,omitempty" yaml:"short_title,omitempty"`
	HarvestingInfo *HarvestingInfo `json:"_harvesting_info,omitempty" yaml:"harvesting_info,omitempty"`
	Refereed       *bool           `json:"refereed,omitempty" yaml:"refereed,omitempty"`
	Proceedings    *bool           `json:"proceedings,omitempty" yaml:"proceedings,omitempty"`
}

type HarvestingInfo struct {
	Coverage string `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// RelevancePrediction is the output of the external relevance classifier,
// carried in scratch state and snapshotted into audit events.
type RelevancePrediction struct {
	MaxScore float64 `json:"max_score,omitempty"`
	Decision string  `json:"decision,omitempty"`
}

// AuditEntry is one row of the workflow audit trail.
type AuditEntry struct {
	Action              string               `json:"action"`
	RelevancePrediction *RelevancePrediction `json:"relevance_prediction,omitempty"`
	ObjectID            int64                `json:"object_id"`
	UserID              *int64               `json:"user_id"`
	Source              string               `json:"source"`
}
