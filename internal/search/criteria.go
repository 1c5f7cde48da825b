// Package search implements the recruiter profile search: an explicitly
// applied criteria snapshot fetched through a gateway, with client-side
// per-column value filters narrowing the fetched rows.
package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Search modes.
const (
	ModeGeneral  = "general"
	ModeAdvanced = "advanced"
)

// Criteria is the full recruiter search form. Zero values mean "not set"
// and are omitted from the query string.
type Criteria struct {
	Keyword         string   `json:"keyword"`
	Mode            string   `json:"mode"`
	Region          string   `json:"region"`
	Gender          string   `json:"gender"`
	Category        string   `json:"category"`
	ApplicationType string   `json:"applicationType"`
	MinExp          string   `json:"minExp"`
	MaxExp          string   `json:"maxExp"`
	FromDate        string   `json:"fromDate"`
	ToDate          string   `json:"toDate"`
	Education       string   `json:"education"`
	Languages       []string `json:"language"`
	JobRole         string   `json:"jobRole"`
	CurrentCompany  string   `json:"currentCompanyName"`
	CurrentRole     string   `json:"currentDesignation"`

	// General mode section.
	BasicQualification        []string `json:"basicQualification"`
	BasicRequirement          string   `json:"basicRequirement"`
	ProfessionalQualification []string `json:"professionalQualification"`
	ProfessionalRequirement   string   `json:"professionalRequirement"`
	MinimumLevel              string   `json:"minimumLevel"`
	Department                string   `json:"department"`
	KeySkill                  string   `json:"keySkill"`
	PreferredIndustry         []string `json:"preferredIndustry"`
	Countries                 []string `json:"country"`
	States                    []string `json:"state"`

	// Advanced mode section.
	AgeFrom                 string   `json:"ageFrom"`
	AgeTo                   string   `json:"ageTo"`
	Institutes              []string `json:"institute"`
	Keywords                string   `json:"keywords"`
	KeywordsMode            string   `json:"keywordsMode"`
	PreferredCompanies      []string `json:"preferredCompanies"`
	PreferredCompaniesOther string   `json:"preferredCompaniesOther"`
	AntiCompanies           []string `json:"antiCompanies"`
	AntiCompaniesOther      string   `json:"antiCompaniesOther"`
	PositionRole            string   `json:"positionRole"`
}

// NewCriteria returns a criteria form with the selector defaults.
func NewCriteria() Criteria {
	return Criteria{
		Mode:                    ModeGeneral,
		BasicRequirement:        "optional",
		ProfessionalRequirement: "optional",
		KeywordsMode:            "all",
		PositionRole:            "any",
	}
}

// ClearGeneral resets the general-section fields to their defaults. It
// touches nothing else and triggers no fetch.
func (c *Criteria) ClearGeneral() {
	c.BasicQualification = nil
	c.BasicRequirement = "optional"
	c.ProfessionalQualification = nil
	c.ProfessionalRequirement = "optional"
	c.MinimumLevel = ""
	c.Department = ""
	c.KeySkill = ""
	c.PreferredIndustry = nil
	c.Countries = nil
	c.States = nil
}

// ToQuery serializes the criteria to backend query parameters. In advanced
// mode the keyword's inner whitespace collapses to "+" so the backend sees
// one term expression.
func (c Criteria) ToQuery() url.Values {
	q := url.Values{}

	keyword := strings.TrimSpace(c.Keyword)
	if c.Mode == ModeAdvanced {
		keyword = strings.Join(strings.Fields(keyword), "+")
	}
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	if c.Mode != "" {
		q.Set("mode", c.Mode)
	}

	setIf(q, "region", c.Region)
	setIf(q, "gender", c.Gender)
	setIf(q, "category", c.Category)
	setIf(q, "applicationType", c.ApplicationType)
	setNumberIf(q, "minExp", c.MinExp)
	setNumberIf(q, "maxExp", c.MaxExp)
	setIf(q, "fromDate", c.FromDate)
	setIf(q, "toDate", c.ToDate)
	setIf(q, "education", c.Education)
	addAll(q, "language", c.Languages)
	setIf(q, "jobRole", c.JobRole)
	setIf(q, "currentCompanyName", c.CurrentCompany)
	setIf(q, "currentDesignation", c.CurrentRole)

	addAll(q, "basicQualification", c.BasicQualification)
	setIf(q, "basicRequirement", c.BasicRequirement)
	addAll(q, "professionalQualification", c.ProfessionalQualification)
	setIf(q, "professionalRequirement", c.ProfessionalRequirement)
	setIf(q, "minimumLevel", c.MinimumLevel)
	setIf(q, "department", c.Department)
	setIf(q, "keySkill", c.KeySkill)
	addAll(q, "preferredIndustry", c.PreferredIndustry)
	addAll(q, "country", c.Countries)
	addAll(q, "state", c.States)

	setIf(q, "ageFrom", c.AgeFrom)
	setIf(q, "ageTo", c.AgeTo)
	addAll(q, "institute", c.Institutes)
	setIf(q, "keywords", c.Keywords)
	setIf(q, "keywordsMode", c.KeywordsMode)
	addAll(q, "preferredCompanies", c.PreferredCompanies)
	setIf(q, "preferredCompaniesOther", c.PreferredCompaniesOther)
	addAll(q, "antiCompanies", c.AntiCompanies)
	setIf(q, "antiCompaniesOther", c.AntiCompaniesOther)
	setIf(q, "positionRole", c.PositionRole)

	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

// setNumberIf keeps only values that parse as numbers, matching the
// Number() coercion the criteria form applies before sending.
func setNumberIf(q url.Values, key, value string) {
	if value == "" {
		return
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return
	}
	q.Set(key, strconv.FormatFloat(n, 'f', -1, 64))
}

func addAll(q url.Values, key string, values []string) {
	for _, v := range values {
		q.Add(key, v)
	}
}
