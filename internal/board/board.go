// Package board covers the job board: listing the public openings and
// posting new ones through the backend.
package board

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/logger"
)

// Posting is a new job opening as the posting form collects it. Only the
// position is mandatory; everything else is free-form and passed to the
// backend as-is.
type Posting struct {
	Organisation              string   `json:"organisation"`
	OrganisationOther         string   `json:"organisationOther"`
	Position                  string   `json:"position" validate:"required"`
	PositionsCount            string   `json:"positionsCount" validate:"omitempty,numeric"`
	Level                     string   `json:"level"`
	LevelOther                string   `json:"levelOther"`
	ExpFrom                   string   `json:"expFrom" validate:"omitempty,numeric"`
	ExpTo                     string   `json:"expTo" validate:"omitempty,numeric"`
	AgeFrom                   string   `json:"ageFrom" validate:"omitempty,numeric"`
	AgeTo                     string   `json:"ageTo" validate:"omitempty,numeric"`
	Department                string   `json:"department"`
	MandatoryKeySkills        string   `json:"mandatoryKeySkills"`
	OptionalKeySkills         string   `json:"optionalKeySkills"`
	CTCUpper                  string   `json:"ctcUpper"`
	JobType                   string   `json:"jobType"`
	JobCity                   string   `json:"jobCity"`
	JobCityOther              string   `json:"jobCityOther"`
	JobState                  string   `json:"jobState"`
	BasicQualification        string   `json:"basicQualification"`
	ProfessionalQualification string   `json:"professionalQualification"`
	JobDescription            string   `json:"jobDescription"`
	Responsibilities          string   `json:"responsibilities"`
	MandatoryLanguages        []string `json:"mandatoryLanguages"`
	TargetCompaniesIDs        []string `json:"targetCompaniesIds"`
	PreferredFrom             string   `json:"preferredFrom"`
	PositionRole              string   `json:"positionRole"`
	Remarks                   string   `json:"remarks"`
}

// Poster is the slice of the backend client the board needs.
type Poster interface {
	Jobs(ctx context.Context) ([]backend.Job, error)
	Companies(ctx context.Context) ([]backend.Company, error)
	PostJob(ctx context.Context, payload interface{}, token string) error
}

// Service lists openings and submits postings.
type Service struct {
	backend  Poster
	validate *validator.Validate
	logger   logger.Logger
}

// NewService creates a board service.
func NewService(poster Poster, log logger.Logger) *Service {
	return &Service{
		backend:  poster,
		validate: validator.New(),
		logger:   log,
	}
}

// Openings returns the public job openings, newest first.
func (s *Service) Openings(ctx context.Context) ([]backend.Job, error) {
	jobs, err := s.backend.Jobs(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(jobs, func(i, j int) bool {
		return parsePostedAt(jobs[i].PostedAt).After(parsePostedAt(jobs[j].PostedAt))
	})
	return jobs, nil
}

// Companies lists the organisation options for the posting form.
func (s *Service) Companies(ctx context.Context) ([]backend.Company, error) {
	return s.backend.Companies(ctx)
}

// Post validates a posting and submits it with the recruiter's token.
func (s *Service) Post(ctx context.Context, p Posting, token string) error {
	p.Position = strings.TrimSpace(p.Position)
	if err := s.validate.Struct(p); err != nil {
		messages := make([]string, 0)
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				if fe.Field() == "Position" {
					messages = append(messages, "Position/Designation is required")
				} else {
					messages = append(messages, fe.Field()+" is invalid")
				}
			}
		}
		if len(messages) == 0 {
			messages = append(messages, err.Error())
		}
		return errors.NewValidationFailedError(strings.Join(messages, "; "))
	}

	if err := s.backend.PostJob(ctx, p, token); err != nil {
		s.logger.Error("job posting failed", map[string]interface{}{
			"position": p.Position,
			"error":    err.Error(),
		})
		return err
	}

	s.logger.Info("job posted", map[string]interface{}{
		"position":     p.Position,
		"organisation": p.Organisation,
	})
	return nil
}

func parsePostedAt(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Time{}
}
