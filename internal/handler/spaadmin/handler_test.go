package spaadmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/internal/middleware"
	"github.com/lankaspa/portal/internal/model"
	"github.com/lankaspa/portal/internal/service/directory"
)

type stubAPI struct {
	mu              sync.Mutex
	therapists      []model.Therapist
	failLists       bool
	transitionCalls int
}

func (a *stubAPI) ListSpas(ctx context.Context) ([]model.Spa, error) { return nil, nil }

func (a *stubAPI) ListTherapists(ctx context.Context, spaID string) ([]model.Therapist, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.failLists {
		return nil, errors.New("boom")
	}
	return a.therapists, nil
}

func (a *stubAPI) TransitionSpaStatus(ctx context.Context, id string, status model.SpaStatus, reason string) error {
	return nil
}

func (a *stubAPI) TransitionTherapistStatus(ctx context.Context, id string, status model.TherapistStatus, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.transitionCalls++
	return nil
}

func seedAPI() *stubAPI {
	return &stubAPI{
		therapists: []model.Therapist{
			{ID: "th-1", FullName: "Jane Perera", SpaID: "spa-1", Status: model.TherapistStatusApproved},
			{ID: "th-2", FullName: "Amal Silva", SpaID: "spa-2", Status: model.TherapistStatusApproved},
		},
	}
}

func newTestRouter(t *testing.T, api *stubAPI, prime bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := directory.NewService(api, directory.Config{}, nil, nil, zerolog.Nop())
	if prime {
		require.NoError(t, dir.RetryTherapists(context.Background()))
	} else {
		require.Error(t, dir.RetryTherapists(context.Background()))
	}

	h := NewHandler(dir, nil, nil, zerolog.Nop())

	r := gin.New()
	group := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.ContextSpaID, "spa-1")
	})
	h.RegisterRoutes(group)
	return r
}

func postTransition(t *testing.T, r *gin.Engine, therapistID, status string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"status": status})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/spa/therapists/"+therapistID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTransitionOwnTherapist(t *testing.T) {
	api := seedAPI()
	r := newTestRouter(t, api, true)

	w := postTransition(t, r, "th-1", "resigned")
	require.Equal(t, http.StatusOK, w.Code)

	api.mu.Lock()
	assert.Equal(t, 1, api.transitionCalls)
	api.mu.Unlock()
}

func TestTransitionForeignTherapistForbidden(t *testing.T) {
	api := seedAPI()
	r := newTestRouter(t, api, true)

	w := postTransition(t, r, "th-2", "resigned")
	assert.Equal(t, http.StatusForbidden, w.Code)

	api.mu.Lock()
	assert.Equal(t, 0, api.transitionCalls)
	api.mu.Unlock()
}

func TestTransitionWithFailedViewIsUpstreamError(t *testing.T) {
	api := seedAPI()
	api.failLists = true
	r := newTestRouter(t, api, false)

	// The ownership check cannot run against a failed view; the caller gets
	// an upstream error, not a denial.
	w := postTransition(t, r, "th-1", "resigned")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	api.mu.Lock()
	assert.Equal(t, 0, api.transitionCalls)
	api.mu.Unlock()
}

func TestTransitionApprovalStatusRejected(t *testing.T) {
	api := seedAPI()
	r := newTestRouter(t, api, true)

	// Association approval states are LSA-only; the spa console carries
	// employment outcomes.
	w := postTransition(t, r, "th-1", "approved")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
