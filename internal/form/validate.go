package form

import "regexp"

// StepErrors reports the outcome of validating one step.
type StepErrors struct {
	Step   Step     `json:"step"`
	Errors []string `json:"errors"`
}

// HasErrors reports whether the step failed validation.
func (v StepErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	// E.164 format: optional +, must start with 1-9, then 6-14 more digits
	phoneRegex = regexp.MustCompile(`^[\+]?[1-9][\d]{6,14}$`)
)

// ValidateStep checks the rules for a single step and returns human-readable
// messages in field order. Steps past the contact step always pass; their
// sections are optional.
func ValidateStep(s Step, f *Application) []string {
	var errs []string
	switch s {
	case StepPersonal:
		if f.FullName == "" {
			errs = append(errs, "Full Name is required")
		}
		if f.DateOfBirth == "" {
			errs = append(errs, "Date of Birth is required")
		}
		if f.Gender == "" {
			errs = append(errs, "Gender is required")
		}
		if f.Category == "" {
			errs = append(errs, "Category is required")
		}
	case StepWorkExperience:
		if f.ExperienceType == "experienced" {
			var one WorkExperience
			if len(f.WorkExperience) > 0 {
				one = f.WorkExperience[0]
			}
			if one.InstitutionName == "" {
				errs = append(errs, "At least one work entry requires Company Name")
			}
			if one.Designation == "" {
				errs = append(errs, "At least one work entry requires Designation")
			}
		}
	case StepEducation:
		var e0 EducationQualification
		if len(f.EducationQualifications) > 0 {
			e0 = f.EducationQualifications[0]
		}
		if e0.Level == "" {
			errs = append(errs, "Education: Level is required")
		}
		if e0.InstitutionName == "" && e0.BoardOrUniversity == "" {
			errs = append(errs, "Education: Institution/Board is required")
		}
	case StepFamily:
		if f.MobileNumber == "" {
			errs = append(errs, "Mobile Number is required")
		}
		if f.Email == "" {
			errs = append(errs, "Email is required")
		}
	}
	return errs
}

// SubmitCheck is the stricter gate run immediately before submission. It is
// deliberately separate from ValidateStep: its field set differs and a
// failure sends the applicant back to the step it names.
func SubmitCheck(f *Application) *StepErrors {
	if f.FullName == "" || f.Email == "" || f.MobileNumber == "" || f.DateOfBirth == "" {
		return &StepErrors{
			Step:   StepWorkExperience,
			Errors: []string{"Please fill required fields: Full Name, Email, Mobile, Date of Birth."},
		}
	}
	if f.Gender == "" || f.Category == "" {
		return &StepErrors{
			Step:   StepWorkExperience,
			Errors: []string{"Please choose Gender and Category."},
		}
	}
	return nil
}

// ValidContact reports whether email and mobile parse under the formats the
// backend accepts. Format problems are surfaced as warnings, not gates; the
// backend performs its own canonical validation.
func ValidContact(f *Application) []string {
	var warnings []string
	if f.Email != "" && !emailRegex.MatchString(f.Email) {
		warnings = append(warnings, "Email format looks invalid")
	}
	if f.MobileNumber != "" && !phoneRegex.MatchString(f.MobileNumber) {
		warnings = append(warnings, "Mobile number format looks invalid")
	}
	return warnings
}
