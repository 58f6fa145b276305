package catalog

// AgeRange carries the catalog's optional age bounds for a scheme.
type AgeRange struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// Summary is one listing entry. The catalog serves multi-valued axes
// (tags, states, categories) as string arrays.
type Summary struct {
	Slug        string
	Name        string
	Tags        []string
	States      []string
	Categories  []string
	Description string
	Age         *AgeRange
}

// Page is one listing response: the catalog-reported grand total plus
// up to pageSize summaries.
type Page struct {
	Total int
	Items []Summary
}

// Detail carries the long-form markdown fields of one scheme. Each
// field is extracted independently; nil means the catalog did not serve
// that section (or served it malformed).
type Detail struct {
	Benefits           *string
	Exclusions         *string
	ApplicationProcess *string
	Eligibility        *string
	DocumentsRequired  *string
}

// listingResponse mirrors the catalog's nested listing payload.
type listingResponse struct {
	Data struct {
		Summary struct {
			Total int `json:"total"`
		} `json:"summary"`
		Hits struct {
			Items []listingItem `json:"items"`
		} `json:"hits"`
	} `json:"data"`
}

type listingItem struct {
	Fields struct {
		Slug             string    `json:"slug"`
		SchemeName       string    `json:"schemeName"`
		Tags             []string  `json:"tags"`
		BeneficiaryState []string  `json:"beneficiaryState"`
		SchemeCategory   []string  `json:"schemeCategory"`
		BriefDescription string    `json:"briefDescription"`
		Age              *AgeRange `json:"age"`
	} `json:"fields"`
}

// detailResponse mirrors the catalog's nested detail payload. Pointer
// leaves make absent sections decode to nil instead of failing.
type detailResponse struct {
	PageProps struct {
		SchemeData struct {
			EN *struct {
				SchemeContent *struct {
					BenefitsMD   *string `json:"benefits_md"`
					ExclusionsMD *string `json:"exclusions_md"`
				} `json:"schemeContent"`
				ApplicationProcess []struct {
					ProcessMD *string `json:"process_md"`
				} `json:"applicationProcess"`
				EligibilityCriteria *struct {
					EligibilityDescriptionMD *string `json:"eligibilityDescription_md"`
				} `json:"eligibilityCriteria"`
			} `json:"en"`
		} `json:"schemeData"`
		Docs struct {
			Data struct {
				EN *struct {
					DocumentsRequiredMD *string `json:"documentsRequired_md"`
				} `json:"en"`
			} `json:"data"`
		} `json:"docs"`
	} `json:"pageProps"`
}

// toDetail flattens the nested payload field by field.
func (dr *detailResponse) toDetail() Detail {
	var d Detail
	en := dr.PageProps.SchemeData.EN
	if en != nil {
		if sc := en.SchemeContent; sc != nil {
			d.Benefits = sc.BenefitsMD
			d.Exclusions = sc.ExclusionsMD
		}
		if len(en.ApplicationProcess) > 0 {
			d.ApplicationProcess = en.ApplicationProcess[0].ProcessMD
		}
		if ec := en.EligibilityCriteria; ec != nil {
			d.Eligibility = ec.EligibilityDescriptionMD
		}
	}
	if docs := dr.PageProps.Docs.Data.EN; docs != nil {
		d.DocumentsRequired = docs.DocumentsRequiredMD
	}
	return d
}
