package actions

import "hepflow/internal/holdingpen"

// experimentalCategories holds the arXiv and legacy category terms that mark
// a record as experimental.
var experimentalCategories = map[string]struct{}{
	"hep-ex":          {},
	"nucl-ex":         {},
	"astro-ph":        {},
	"astro-ph.IM":     {},
	"astro-ph.CO":     {},
	"astro-ph.EP":     {},
	"astro-ph.GA":     {},
	"astro-ph.HE":     {},
	"astro-ph.SR":     {},
	"physics.ins-det": {},
	"Experiment-HEP":  {},
	"Experiment-Nucl": {},
	"Astrophysics":    {},
	"Instrumentation": {},
}

func isExperimentalCategory(term string) bool {
	_, ok := experimentalCategories[term]
	return ok
}

func IsExperimentalPaper(obj *holdingpen.Object) bool {
	for _, ep := range obj.Data.ArxivEprints {
		for _, cat := range ep.Categories {
			if isExperimentalCategory(cat) {
				return true
			}
		}
	}
	for _, ic := range obj.Data.InspireCategories {
		if isExperimentalCategory(ic.Term) {
			return true
		}
	}
	return false
}

func IsArxivPaper(obj *holdingpen.Object) bool {
	return len(obj.Data.ArxivEprints) > 0
}

func IsSubmission(obj *holdingpen.Object) bool {
	src := obj.Data.AcquisitionSource
	return src != nil && src.Method == "submitter"
}
