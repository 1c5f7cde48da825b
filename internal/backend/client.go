// Package backend is the REST client for the recruitment backend this
// service fronts. The backend stays opaque: this client speaks its wire
// contract and nothing else.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/errors"
	"recruitment-intake/internal/common/httpclient"
	"recruitment-intake/internal/common/logger"
)

// Client talks to the recruitment backend.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *httpclient.Client
	logger     logger.Logger
}

// NewClient creates a backend client from config.
func NewClient(cfg config.BackendConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authToken:  cfg.AuthToken,
		httpClient: httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		logger:     log.WithFields(map[string]interface{}{"component": "backend"}),
	}
}

// Profile is one candidate row as the backend returns it.
type Profile struct {
	ID                 string   `json:"_id"`
	Name               string   `json:"name"`
	Experience         string   `json:"experience"`
	CTC                string   `json:"ctc"`
	Location           string   `json:"location"`
	CurrentDesignation string   `json:"current_designation"`
	CurrentCompany     string   `json:"current_company"`
	Skills             []string `json:"skills"`
	PreviousRoles      []string `json:"previous_roles"`
	ResumeURL          string   `json:"resumeUrl"`
}

// Job is one posted opening.
type Job struct {
	ID               string `json:"_id"`
	Position         string `json:"position"`
	OrganisationName string `json:"organisationName"`
	Level            string `json:"level"`
	Department       string `json:"department"`
	ExpFrom          string `json:"expFrom"`
	ExpTo            string `json:"expTo"`
	CTCUpper         string `json:"ctcUpper"`
	JobType          string `json:"jobType"`
	JobCity          string `json:"jobCity"`
	JobState         string `json:"jobState"`
	JobDescription   string `json:"jobDescription"`
	PostedAt         string `json:"createdAt"`
}

// Company is one organisation option for the posting form.
type Company struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ApplyResult is the backend's answer to a submitted application.
type ApplyResult struct {
	ApplicationID string `json:"applicationId"`
	Message       string `json:"message"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// Apply posts a fully encoded multipart application. The body and content
// type come from the submission encoder; this method only moves bytes.
func (c *Client) Apply(ctx context.Context, body io.Reader, contentType string) (*ApplyResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recruitment/apply", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewBackendUnavailableError(err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.NewBackendRejectedError(resp.StatusCode, string(raw))
	}

	var result ApplyResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// Some deployments answer with a bare message; treat any 2xx as
		// accepted.
		result = ApplyResult{Message: strings.TrimSpace(string(raw))}
	}
	return &result, nil
}

// FilteredSearch runs the recruiter search with an applied criteria snapshot.
func (c *Client) FilteredSearch(ctx context.Context, query url.Values) ([]Profile, error) {
	endpoint := c.baseURL + "/api/recruitment/filtered-search"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var envelope dataEnvelope
	if err := c.getJSON(ctx, endpoint, "", &envelope); err != nil {
		return nil, err
	}

	var profiles []Profile
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &profiles); err != nil {
			return nil, errors.NewSearchQueryFailedError(err)
		}
	}
	return profiles, nil
}

// StageProfiles fetches the candidates parked at one hiring stage of a job.
// Requires a recruiter bearer token.
func (c *Client) StageProfiles(ctx context.Context, jobID, token string) ([]Profile, error) {
	endpoint := fmt.Sprintf("%s/api/recruitment/post-job-profiles/%s", c.baseURL, url.PathEscape(jobID))

	var envelope dataEnvelope
	if err := c.getJSON(ctx, endpoint, token, &envelope); err != nil {
		return nil, err
	}

	var profiles []Profile
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &profiles); err != nil {
			return nil, errors.NewSearchQueryFailedError(err)
		}
	}
	return profiles, nil
}

// Jobs lists the public job openings.
func (c *Client) Jobs(ctx context.Context) ([]Job, error) {
	var envelope dataEnvelope
	if err := c.getJSON(ctx, c.baseURL+"/api/recruitment/public/job-openings", "", &envelope); err != nil {
		return nil, err
	}

	var jobs []Job
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &jobs); err != nil {
			return nil, errors.NewBackendUnavailableError(err)
		}
	}
	return jobs, nil
}

// Companies lists organisations for the posting form.
func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	var envelope dataEnvelope
	if err := c.getJSON(ctx, c.baseURL+"/api/recruitment/getCompanies/all", "", &envelope); err != nil {
		return nil, err
	}

	var companies []Company
	if len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, &companies); err != nil {
			return nil, errors.NewBackendUnavailableError(err)
		}
	}
	return companies, nil
}

// PostJob submits a new opening with a recruiter bearer token.
func (c *Client) PostJob(ctx context.Context, payload interface{}, token string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal posting: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/recruitment/post-job", strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewBackendUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		raw, _ := io.ReadAll(resp.Body)
		return errors.NewBackendRejectedError(resp.StatusCode, string(raw))
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewBackendUnavailableError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request", map[string]interface{}{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"elapsed":  time.Since(start).String(),
	})

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return errors.NewBackendRejectedError(resp.StatusCode, string(raw))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewBackendUnavailableError(err)
	}
	return nil
}
