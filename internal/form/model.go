// Package form holds the job application schema and the wizard that walks
// an applicant through it.
package form

// Attachment is a binary field captured or uploaded alongside the form.
type Attachment struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"-"`
}

// EducationQualification is one row of the education section.
type EducationQualification struct {
	Level             string `json:"level"`
	ExamType          string `json:"examType"`
	Medium            string `json:"medium"`
	Subject           string `json:"subject"`
	BoardOrUniversity string `json:"boardOrUniversity"`
	InstitutionName   string `json:"institutionName"`
	YearOfPassing     string `json:"yearOfPassing"`
	PercentageOrCGPA  string `json:"percentageOrCGPA"`
}

// WorkExperience is one row of the work history section.
type WorkExperience struct {
	SerialNo         int    `json:"serialNo"`
	InstitutionName  string `json:"institutionName"`
	Designation      string `json:"designation"`
	Level            string `json:"level"`
	JobRole          string `json:"jobRole"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	NetMonthlySalary string `json:"netMonthlySalary"`
	DetailJD         string `json:"detailJD"`
}

// Reference is one professional reference.
type Reference struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Contact     string `json:"contact"`
}

// SocialMedia holds the applicant's profile links.
type SocialMedia struct {
	LinkedIn  string `json:"linkedin"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
}

// Application is the full intake form. Field names mirror the multipart
// contract the recruitment backend expects.
type Application struct {
	ApplicationType      string      `json:"applicationType"`
	Photo                *Attachment `json:"photo"`
	Resume               *Attachment `json:"resume"`
	IntroVideo           *Attachment `json:"introVideo"`
	IntroThumbnail       *Attachment `json:"introThumbnail"`
	RequestTranscription bool        `json:"requestTranscription"`

	FullName         string `json:"fullName"`
	FatherName       string `json:"fatherName"`
	FatherOccupation string `json:"fatherOccupation"`
	MotherName       string `json:"motherName"`
	MotherOccupation string `json:"motherOccupation"`
	DateOfBirth      string `json:"dateOfBirth"`
	Gender           string `json:"gender"`
	Category         string `json:"category"`
	Religion         string `json:"religion"`
	Nationality      string `json:"nationality"`

	LanguagesKnown []string `json:"languagesKnown"`
	MaritalStatus  string   `json:"maritalStatus"`
	SpouseName     string   `json:"spouseName"`
	Children       int      `json:"children"`

	Address                 string `json:"address"`
	AddressPincode          string `json:"addressPincode"`
	PermanentAddress        string `json:"permanentAddress"`
	PermanentAddressPincode string `json:"permanentAddressPincode"`

	MobileNumber          string `json:"mobileNumber"`
	EmergencyMobileNumber string `json:"emergencyMobileNumber"`
	Email                 string `json:"email"`

	ExperienceType          string                   `json:"experienceType"`
	EducationQualifications []EducationQualification `json:"educationQualifications"`
	TotalWorkExperience     float64                  `json:"totalWorkExperience"`

	ExpectedCTC        float64 `json:"expectedCTC"`
	JobRole            string  `json:"jobRole"`
	JobLevel           string  `json:"jobLevel"`
	CurrentCompanyName string  `json:"currentCompanyName"`
	CurrentDesignation string  `json:"currentDesignation"`
	CurrentStartDate   string  `json:"currentStartDate"`
	CurrentEndDate     string  `json:"currentEndDate"`
	CurrentCTC         float64 `json:"currentCTC"`
	CurrentDetailJD    string  `json:"currentDetailJD"`

	WorkExperience []WorkExperience `json:"workExperience"`
	SocialMedia    SocialMedia      `json:"socialMedia"`
	References     []Reference      `json:"references"`
}

// NewApplication returns a blank form with one template row in each repeating
// section, matching the shape the backend accepts for a first submission.
func NewApplication() *Application {
	return &Application{
		LanguagesKnown: []string{},
		EducationQualifications: []EducationQualification{
			{
				Level:    "Graduation",
				ExamType: "Regular",
				Medium:   "English",
			},
		},
		WorkExperience: []WorkExperience{
			{SerialNo: 1},
		},
		References: []Reference{
			{},
		},
	}
}

// Clone returns a deep copy of the form. Attachment data buffers are shared:
// attachments are replaced wholesale, never mutated in place. Repeating
// sections stay non-nil so the copy serializes to the same shape.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	c.Photo = a.Photo.clone()
	c.Resume = a.Resume.clone()
	c.IntroVideo = a.IntroVideo.clone()
	c.IntroThumbnail = a.IntroThumbnail.clone()
	c.LanguagesKnown = append(make([]string, 0, len(a.LanguagesKnown)), a.LanguagesKnown...)
	c.EducationQualifications = append(make([]EducationQualification, 0, len(a.EducationQualifications)), a.EducationQualifications...)
	c.WorkExperience = append(make([]WorkExperience, 0, len(a.WorkExperience)), a.WorkExperience...)
	c.References = append(make([]Reference, 0, len(a.References)), a.References...)
	return &c
}

func (at *Attachment) clone() *Attachment {
	if at == nil {
		return nil
	}
	c := *at
	return &c
}

// AddEducation appends a blank education row.
func (a *Application) AddEducation() {
	a.EducationQualifications = append(a.EducationQualifications, EducationQualification{
		ExamType: "Regular",
		Medium:   "English",
	})
}

// RemoveEducation removes the row at i. The section never goes empty.
func (a *Application) RemoveEducation(i int) {
	if len(a.EducationQualifications) <= 1 || i < 0 || i >= len(a.EducationQualifications) {
		return
	}
	a.EducationQualifications = append(a.EducationQualifications[:i], a.EducationQualifications[i+1:]...)
}

// AddWorkExperience appends a blank work row with the next serial number.
func (a *Application) AddWorkExperience() {
	a.WorkExperience = append(a.WorkExperience, WorkExperience{
		SerialNo: len(a.WorkExperience) + 1,
	})
}

// RemoveWorkExperience removes the row at i and renumbers the remainder. The
// section never goes empty.
func (a *Application) RemoveWorkExperience(i int) {
	if len(a.WorkExperience) <= 1 || i < 0 || i >= len(a.WorkExperience) {
		return
	}
	a.WorkExperience = append(a.WorkExperience[:i], a.WorkExperience[i+1:]...)
	for j := range a.WorkExperience {
		a.WorkExperience[j].SerialNo = j + 1
	}
}

// AddReference appends a blank reference row.
func (a *Application) AddReference() {
	a.References = append(a.References, Reference{})
}

// RemoveReference removes the row at i. References may be emptied entirely.
func (a *Application) RemoveReference(i int) {
	if i < 0 || i >= len(a.References) {
		return
	}
	a.References = append(a.References[:i], a.References[i+1:]...)
}
