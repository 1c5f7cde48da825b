// internal/draft/store_test.go
package draft

import (
	"context"
	"testing"
	"time"

	"recruitment-intake/internal/common/database"
	"recruitment-intake/internal/common/logger"
	"recruitment-intake/internal/form"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := NewRedisStore(&database.RedisClient{Client: client}, "application_form_draft", time.Hour)
	return store, mr
}

func createTestDraft() *Draft {
	app := form.NewApplication()
	app.FullName = "Ravi Kumar"
	app.Email = "ravi.kumar@example.com"
	app.MobileNumber = "9812345678"
	app.LanguagesKnown = []string{"Hindi", "English"}
	app.WorkExperience[0].InstitutionName = "Acme Corp"
	return &Draft{
		Form:    app,
		Step:    form.StepEducation,
		SavedAt: time.Now().UTC().Truncate(time.Second),
	}
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

// ==========================
// Round-trip
// ==========================

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	saved := createTestDraft()
	require.NoError(t, store.Save(ctx, "sess-1", saved))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, saved.Step, loaded.Step)
	assert.Equal(t, saved.Form.FullName, loaded.Form.FullName)
	assert.Equal(t, saved.Form.LanguagesKnown, loaded.Form.LanguagesKnown)
	assert.Equal(t, saved.Form.WorkExperience, loaded.Form.WorkExperience)
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, _ := setupRedisStore(t)

	loaded, err := store.Load(context.Background(), "nobody")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_DiscardThenLoad(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", createTestDraft()))
	require.NoError(t, store.Discard(ctx, "sess-1"))

	loaded, err := store.Load(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SessionsAreIsolated(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	a := createTestDraft()
	b := createTestDraft()
	b.Form.FullName = "Someone Else"

	require.NoError(t, store.Save(ctx, "sess-a", a))
	require.NoError(t, store.Save(ctx, "sess-b", b))
	require.NoError(t, store.Discard(ctx, "sess-a"))

	loaded, err := store.Load(ctx, "sess-b")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "Someone Else", loaded.Form.FullName)
}

func TestRedisStore_CorruptPayloadTreatedAsAbsent(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("application_form_draft:sess-1", `{"unexpected": true}`))

	loaded, err := store.Load(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// The corrupt entry is also gone.
	_, getErr := mr.Get("application_form_draft:sess-1")
	assert.Error(t, getErr)
}

func TestRedisStore_StorageErrorSurfaced(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisStore(&database.RedisClient{Client: db}, "application_form_draft", time.Hour)

	mock.ExpectGet("application_form_draft:sess-1").SetErr(assert.AnError)

	_, err := store.Load(context.Background(), "sess-1")
	assert.Error(t, err)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", createTestDraft()))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, form.StepEducation, loaded.Step)

	require.NoError(t, store.Discard(ctx, "sess-1"))
	loaded, err = store.Load(ctx, "sess-1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}
