package form

// Step indexes the fixed wizard order.
type Step int

const (
	StepPersonal Step = iota
	StepWorkExperience
	StepEducation
	StepFamily
	StepReferences
	StepUploads
	StepSocial
	StepReview

	StepCount = 8
)

var stepLabels = [StepCount]string{
	"Personal",
	"Work Experience",
	"Education Qualifications",
	"Family",
	"References",
	"Uploads",
	"Social",
	"Review",
}

func (s Step) String() string {
	if s < 0 || s >= StepCount {
		return "unknown"
	}
	return stepLabels[s]
}

// Valid reports whether s is within the wizard.
func (s Step) Valid() bool {
	return s >= 0 && s < StepCount
}
