// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitment-intake/internal/backend"
	"recruitment-intake/internal/board"
	"recruitment-intake/internal/common/config"
	"recruitment-intake/internal/common/database"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/draft"
	"recruitment-intake/internal/form"
	"recruitment-intake/internal/httpapi"
	"recruitment-intake/internal/intake"
	"recruitment-intake/internal/media"
	"recruitment-intake/internal/search"
	"recruitment-intake/internal/session"
	"recruitment-intake/internal/storage"
)

// ==========================
// Test Harness
// ==========================

// fakeBackend stands in for the recruitment backend: it accepts multipart
// applications, serves canned profiles and records job postings.
type fakeBackend struct {
	mu       sync.Mutex
	applies  []appliedForm
	postings []map[string]interface{}
}

type appliedForm struct {
	fields map[string]string
	files  map[string][]byte
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/recruitment/apply", func(w http.ResponseWriter, r *http.Request) {
		mt, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "multipart/form-data" {
			http.Error(w, "expected multipart", http.StatusBadRequest)
			return
		}
		reader := multipart.NewReader(r.Body, params["boundary"])
		applied := appliedForm{fields: map[string]string{}, files: map[string][]byte{}}
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			data, _ := io.ReadAll(part)
			if part.FileName() != "" {
				applied.files[part.FormName()] = data
			} else {
				applied.fields[part.FormName()] = string(data)
			}
		}
		b.mu.Lock()
		b.applies = append(b.applies, applied)
		b.mu.Unlock()
		w.Write([]byte(`{"applicationId":"app-e2e-1","message":"Application received"}`))
	})

	mux.HandleFunc("/api/recruitment/filtered-search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"_id":"p1","name":"Asha Verma","location":"Pune","current_company":"TCS","skills":["go","sql"]},
			{"_id":"p2","name":"Rohan Iyer","location":"Mumbai","current_company":"Infosys","skills":["java"]}
		]}`))
	})

	mux.HandleFunc("/api/recruitment/post-job-profiles/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"_id":"p3","name":"Meera Nair","location":"Pune"}]}`))
	})

	mux.HandleFunc("/api/recruitment/public/job-openings", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"_id":"j1","position":"Backend Engineer","createdAt":"2026-08-01T10:00:00Z"}]}`))
	})

	mux.HandleFunc("/api/recruitment/post-job", func(w http.ResponseWriter, r *http.Request) {
		var posting map[string]interface{}
		json.NewDecoder(r.Body).Decode(&posting)
		b.mu.Lock()
		b.postings = append(b.postings, posting)
		b.mu.Unlock()
		w.Write([]byte(`{"message":"created"}`))
	})

	mux.HandleFunc("/api/recruitment/getCompanies/all", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"_id":"c1","name":"Acme"}]}`))
	})

	return mux
}

type env struct {
	api      http.Handler
	backend  *fakeBackend
	redis    *miniredis.Miniredis
	sessions *session.Service
}

func setup(t *testing.T) *env {
	log := logger.NewTestLogger(t)

	fb := &fakeBackend{}
	backendSrv := httptest.NewServer(fb.handler())
	t.Cleanup(backendSrv.Close)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	drafts := draft.NewRedisStore(&database.RedisClient{Client: rdb}, "application_form_draft", time.Hour)

	client := backend.NewClient(config.BackendConfig{BaseURL: backendSrv.URL, Timeout: 5000}, log)

	capture := media.NewPushHub()
	manager := intake.NewManager(drafts, client, nil, nil, capture, intake.ManagerConfig{
		Draft: config.DraftConfig{DebounceMS: 5},
		Media: config.MediaConfig{MaxSeconds: 60, TickMS: 1000, MimeType: "video/webm"},
	}, log)
	t.Cleanup(manager.Close)

	sessions := session.NewService(config.SessionConfig{JWTSecret: "e2e-secret", Issuer: "recruitment-intake"})

	var cfg config.Config
	cfg.Server.ShutdownTimeout = 1000

	srv := httpapi.NewServer(cfg, httpapi.Deps{
		Manager:       manager,
		Sessions:      sessions,
		Board:         board.NewService(client, log),
		Backend:       client,
		SearchGateway: search.NewRestGateway(client),
		Blobs:         storage.NewMemoryStore(),
		Thumbnailer:   media.NoopThumbnailer{},
		Capture:       capture,
		Logger:        log,
	})

	return &env{api: srv.Handler(), backend: fb, redis: mr, sessions: sessions}
}

func (e *env) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

type state struct {
	SessionID      string           `json:"sessionId"`
	Step           int              `json:"step"`
	Form           form.Application `json:"form"`
	Validation     form.StepErrors  `json:"validation"`
	DraftAvailable bool             `json:"draftAvailable"`
}

// ==========================
// End-to-End Scenarios
// ==========================

// TestApplicantJourney drives the whole intake: session, wizard, draft
// persistence across a restart, a recorded intro and the final submission
// to the backend.
func TestApplicantJourney(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/api/sessions", nil, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var st state
	decode(t, w, &st)
	id := st.SessionID

	// Fill the personal step.
	f := st.Form
	f.FullName = "Asha Verma"
	f.DateOfBirth = "1994-03-12"
	f.Gender = "Female"
	f.Category = "General"
	f.Email = "asha@example.com"
	f.MobileNumber = "9876543210"
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPut, "/api/sessions/"+id+"/form", f, "").Code)

	w = e.do(t, http.MethodPost, "/api/sessions/"+id+"/next", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &st)
	require.Equal(t, 1, st.Step)

	// The autosaver lands the draft in redis.
	require.Eventually(t, func() bool {
		return len(e.redis.Keys()) > 0
	}, time.Second, 5*time.Millisecond)

	// A fresh session under the same id offers the draft; restoring it
	// puts the applicant back where they left off.
	w = e.do(t, http.MethodDelete, "/api/sessions/"+id, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = e.do(t, http.MethodPost, "/api/sessions", map[string]string{"sessionId": id}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	decode(t, w, &st)
	assert.True(t, st.DraftAvailable)
	assert.Equal(t, 0, st.Step)

	w = e.do(t, http.MethodPost, "/api/sessions/"+id+"/draft/restore", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &st)
	assert.False(t, st.DraftAvailable)
	assert.Equal(t, 1, st.Step)
	assert.Equal(t, "Asha Verma", st.Form.FullName)

	// Record a short intro.
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/start", nil, "").Code)
	chunk := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id+"/recording/chunk", bytes.NewReader([]byte("webm-bytes")))
	cw := httptest.NewRecorder()
	e.api.ServeHTTP(cw, chunk)
	require.Equal(t, http.StatusOK, cw.Code)
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/sessions/"+id+"/recording/stop", nil, "").Code)

	// Let the autosave debounce settle so no late save races the discard.
	time.Sleep(50 * time.Millisecond)

	// Submit.
	w = e.do(t, http.MethodPost, "/api/sessions/"+id+"/submit", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "app-e2e-1")

	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	require.Len(t, e.backend.applies, 1)
	applied := e.backend.applies[0]
	assert.Equal(t, "Asha Verma", applied.fields["fullName"])
	assert.Equal(t, []byte("webm-bytes"), applied.files["introVideo"])

	// Submission cleared the draft.
	assert.Empty(t, e.redis.Keys())
}

// TestRecruiterJourney drives the corporate side: signed-in search, stage
// sheet and posting a new opening.
func TestRecruiterJourney(t *testing.T) {
	e := setup(t)
	token, err := e.sessions.Issue("rec-1", "Recruiter", session.RoleCorporate, time.Hour)
	require.NoError(t, err)

	// Search with an applied filter.
	w := e.do(t, http.MethodPut, "/api/search/main/criteria", map[string]string{"keyword": "golang"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodPost, "/api/search/main/apply", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Asha Verma")

	w = e.do(t, http.MethodPut, "/api/search/main/columns/location/filter", map[string][]string{"values": {"Mumbai"}}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Rohan Iyer")
	assert.NotContains(t, w.Body.String(), "Asha Verma")

	// Stage sheet for one opening.
	w = e.do(t, http.MethodPost, "/api/stage-sheet/j1/refresh", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Meera Nair")

	// Post a new opening.
	w = e.do(t, http.MethodPost, "/api/jobs", map[string]string{
		"position":         "Platform Engineer",
		"organisationName": "Acme",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	e.backend.mu.Lock()
	defer e.backend.mu.Unlock()
	require.Len(t, e.backend.postings, 1)
	assert.Equal(t, "Platform Engineer", e.backend.postings[0]["position"])

	// Public board still serves anonymously.
	w = e.do(t, http.MethodGet, "/api/jobs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Backend Engineer")
}
