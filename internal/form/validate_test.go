package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createValidApplication() *Application {
	app := NewApplication()
	app.FullName = "Asha Verma"
	app.DateOfBirth = "1994-03-12"
	app.Gender = "Female"
	app.Category = "General"
	app.MobileNumber = "9876543210"
	app.Email = "asha.verma@example.com"
	app.EducationQualifications[0].Level = "Graduation"
	app.EducationQualifications[0].BoardOrUniversity = "Delhi University"
	return app
}

func TestValidateStep_Personal(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Application)
		expected []string
	}{
		{
			name:     "complete personal section passes",
			mutate:   func(a *Application) {},
			expected: nil,
		},
		{
			name: "missing full name",
			mutate: func(a *Application) {
				a.FullName = ""
			},
			expected: []string{"Full Name is required"},
		},
		{
			name: "all personal fields missing",
			mutate: func(a *Application) {
				a.FullName = ""
				a.DateOfBirth = ""
				a.Gender = ""
				a.Category = ""
			},
			expected: []string{
				"Full Name is required",
				"Date of Birth is required",
				"Gender is required",
				"Category is required",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := createValidApplication()
			tt.mutate(app)
			errs := ValidateStep(StepPersonal, app)
			assert.Equal(t, tt.expected, errs)
		})
	}
}

func TestValidateStep_WorkExperience(t *testing.T) {
	t.Run("fresher skips work history checks", func(t *testing.T) {
		app := createValidApplication()
		app.ExperienceType = "fresher"
		assert.Empty(t, ValidateStep(StepWorkExperience, app))
	})

	t.Run("experienced requires first entry company and designation", func(t *testing.T) {
		app := createValidApplication()
		app.ExperienceType = "experienced"
		errs := ValidateStep(StepWorkExperience, app)
		assert.Equal(t, []string{
			"At least one work entry requires Company Name",
			"At least one work entry requires Designation",
		}, errs)

		app.WorkExperience[0].InstitutionName = "Acme Corp"
		app.WorkExperience[0].Designation = "Analyst"
		assert.Empty(t, ValidateStep(StepWorkExperience, app))
	})

	t.Run("experienced with no rows at all", func(t *testing.T) {
		app := createValidApplication()
		app.ExperienceType = "experienced"
		app.WorkExperience = nil
		errs := ValidateStep(StepWorkExperience, app)
		assert.Len(t, errs, 2)
	})
}

func TestValidateStep_Education(t *testing.T) {
	t.Run("level plus board passes", func(t *testing.T) {
		app := createValidApplication()
		assert.Empty(t, ValidateStep(StepEducation, app))
	})

	t.Run("institution name alone satisfies the either-or", func(t *testing.T) {
		app := createValidApplication()
		app.EducationQualifications[0].BoardOrUniversity = ""
		app.EducationQualifications[0].InstitutionName = "St. Stephen's College"
		assert.Empty(t, ValidateStep(StepEducation, app))
	})

	t.Run("missing both institution and board", func(t *testing.T) {
		app := createValidApplication()
		app.EducationQualifications[0].BoardOrUniversity = ""
		app.EducationQualifications[0].InstitutionName = ""
		errs := ValidateStep(StepEducation, app)
		assert.Equal(t, []string{"Education: Institution/Board is required"}, errs)
	})

	t.Run("missing level", func(t *testing.T) {
		app := createValidApplication()
		app.EducationQualifications[0].Level = ""
		errs := ValidateStep(StepEducation, app)
		assert.Contains(t, errs, "Education: Level is required")
	})
}

func TestValidateStep_Family(t *testing.T) {
	app := createValidApplication()
	app.MobileNumber = ""
	app.Email = ""
	errs := ValidateStep(StepFamily, app)
	assert.Equal(t, []string{"Mobile Number is required", "Email is required"}, errs)
}

func TestValidateStep_LaterStepsAlwaysPass(t *testing.T) {
	app := NewApplication() // entirely blank
	for _, s := range []Step{StepReferences, StepUploads, StepSocial, StepReview} {
		assert.Empty(t, ValidateStep(s, app), "step %s should not validate", s)
	}
}

func TestSubmitCheck(t *testing.T) {
	t.Run("complete form passes", func(t *testing.T) {
		app := createValidApplication()
		assert.Nil(t, SubmitCheck(app))
	})

	t.Run("missing core field redirects", func(t *testing.T) {
		app := createValidApplication()
		app.Email = ""
		result := SubmitCheck(app)
		require.NotNil(t, result)
		assert.Equal(t, StepWorkExperience, result.Step)
		assert.Contains(t, result.Errors[0], "required fields")
	})

	t.Run("missing gender caught after core fields", func(t *testing.T) {
		app := createValidApplication()
		app.Gender = ""
		result := SubmitCheck(app)
		require.NotNil(t, result)
		assert.Contains(t, result.Errors[0], "Gender and Category")
	})
}

func TestValidContact(t *testing.T) {
	app := createValidApplication()
	assert.Empty(t, ValidContact(app))

	app.Email = "not-an-email"
	app.MobileNumber = "012"
	warnings := ValidContact(app)
	assert.Len(t, warnings, 2)
}
