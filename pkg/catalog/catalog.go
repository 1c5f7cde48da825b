// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"os"
)

// OptionCatalog holds the selector option lists the search and posting
// forms present. The lists are data, not code: deployments swap the file
// without a rebuild.
type OptionCatalog struct {
	Version                    string   `json:"version"`
	Qualifications             []string `json:"qualifications"`
	ProfessionalQualifications []string `json:"professionalQualifications"`
	Levels                     []string `json:"levels"`
	Departments                []string `json:"departments"`
	Skills                     []string `json:"skills"`
	Industries                 []string `json:"industries"`
	Countries                  []string `json:"countries"`
	States                     []string `json:"states"`
	Institutes                 []string `json:"institutes"`
	Companies                  []string `json:"companies"`
	Languages                  []string `json:"languages"`
}

func LoadCatalog(path string) (*OptionCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cat OptionCatalog
	err = json.Unmarshal(data, &cat)
	return &cat, err
}

// SaveCatalog writes the catalog back with stable formatting.
func SaveCatalog(path string, cat *OptionCatalog) error {
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ListNames enumerates the lists the catalog carries, in JSON field order.
func ListNames() []string {
	return []string{
		"qualifications", "professionalQualifications", "levels",
		"departments", "skills", "industries", "countries", "states",
		"institutes", "companies", "languages",
	}
}

// List returns the named option list, or nil for an unknown name.
func (c *OptionCatalog) List(name string) []string {
	switch name {
	case "qualifications":
		return c.Qualifications
	case "professionalQualifications":
		return c.ProfessionalQualifications
	case "levels":
		return c.Levels
	case "departments":
		return c.Departments
	case "skills":
		return c.Skills
	case "industries":
		return c.Industries
	case "countries":
		return c.Countries
	case "states":
		return c.States
	case "institutes":
		return c.Institutes
	case "companies":
		return c.Companies
	case "languages":
		return c.Languages
	}
	return nil
}

// SetList replaces the named list. Unknown names are ignored and reported.
func (c *OptionCatalog) SetList(name string, values []string) bool {
	switch name {
	case "qualifications":
		c.Qualifications = values
	case "professionalQualifications":
		c.ProfessionalQualifications = values
	case "levels":
		c.Levels = values
	case "departments":
		c.Departments = values
	case "skills":
		c.Skills = values
	case "industries":
		c.Industries = values
	case "countries":
		c.Countries = values
	case "states":
		c.States = values
	case "institutes":
		c.Institutes = values
	case "companies":
		c.Companies = values
	case "languages":
		c.Languages = values
	default:
		return false
	}
	return true
}
