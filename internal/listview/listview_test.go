package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankaspa/portal/internal/model"
)

type row struct {
	Name     string
	Owner    string
	Status   string
	Category string
}

var rowAccessors = Accessors[row]{
	SearchFields: func(r row) []string { return []string{r.Name, r.Owner} },
	Status:       func(r row) string { return r.Status },
	Category:     func(r row) string { return r.Category },
}

var sampleRows = []row{
	{Name: "Serenity Spa", Owner: "Nimal", Status: "approved", Category: "ayurveda"},
	{Name: "Lotus Wellness", Owner: "Kumari", Status: "pending", Category: "ayurveda"},
	{Name: "Ocean Breeze", Owner: "Nimal", Status: "approved", Category: "thermal"},
}

func TestFilterSearchIsCaseInsensitiveSubstring(t *testing.T) {
	out := Filter(sampleRows, model.ListFilter{Search: "sEreN"}, rowAccessors)
	require.Len(t, out, 1)
	assert.Equal(t, "Serenity Spa", out[0].Name)
}

func TestFilterSearchSpansFields(t *testing.T) {
	out := Filter(sampleRows, model.ListFilter{Search: "nimal"}, rowAccessors)
	assert.Len(t, out, 2)
}

func TestFiltersCombineWithAND(t *testing.T) {
	out := Filter(sampleRows, model.ListFilter{
		Search:   "nimal",
		Status:   "approved",
		Category: "thermal",
	}, rowAccessors)
	require.Len(t, out, 1)
	assert.Equal(t, "Ocean Breeze", out[0].Name)
}

func TestEmptyFilterReturnsEverything(t *testing.T) {
	out := Filter(sampleRows, model.ListFilter{}, rowAccessors)
	assert.Len(t, out, len(sampleRows))
}

func TestFilterNoMatches(t *testing.T) {
	out := Filter(sampleRows, model.ListFilter{Search: "zzz"}, rowAccessors)
	assert.Empty(t, out)
}

func TestViewRefreshSuccess(t *testing.T) {
	v := NewView(func(ctx context.Context) ([]row, error) {
		return sampleRows, nil
	}, rowAccessors)

	assert.Equal(t, StateLoading, v.State())
	require.NoError(t, v.Refresh(context.Background()))

	items, state, err := v.Snapshot(model.ListFilter{})
	assert.NoError(t, err)
	assert.Equal(t, StateReady, state)
	assert.Len(t, items, 3)
}

func TestViewFailureShowsEmptyListNotStale(t *testing.T) {
	fail := false
	v := NewView(func(ctx context.Context) ([]row, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return sampleRows, nil
	}, rowAccessors)

	require.NoError(t, v.Refresh(context.Background()))

	fail = true
	require.Error(t, v.Refresh(context.Background()))

	// Previously fetched rows are discarded, not shown stale.
	items, state, err := v.Snapshot(model.ListFilter{})
	assert.Empty(t, items)
	assert.Equal(t, StateFailed, state)
	assert.Error(t, err)
}

func TestViewRetryIssuesExactlyOneFetch(t *testing.T) {
	calls := 0
	v := NewView(func(ctx context.Context) ([]row, error) {
		calls++
		return nil, errors.New("boom")
	}, rowAccessors)

	require.Error(t, v.Refresh(context.Background()))
	require.Error(t, v.Refresh(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestViewRecoversAfterFailure(t *testing.T) {
	fail := true
	v := NewView(func(ctx context.Context) ([]row, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return sampleRows, nil
	}, rowAccessors)

	require.Error(t, v.Refresh(context.Background()))

	fail = false
	require.NoError(t, v.Refresh(context.Background()))

	items, state, err := v.Snapshot(model.ListFilter{})
	assert.Len(t, items, 3)
	assert.Equal(t, StateReady, state)
	assert.NoError(t, err)
}

func TestViewFallbackSubstitutesOnFailure(t *testing.T) {
	seeded := []row{{Name: "Demo Spa", Status: "approved"}}
	v := NewView(func(ctx context.Context) ([]row, error) {
		return nil, errors.New("boom")
	}, rowAccessors).WithFallback(seeded)

	require.Error(t, v.Refresh(context.Background()))

	items, state, _ := v.Snapshot(model.ListFilter{})
	require.Len(t, items, 1)
	assert.Equal(t, "Demo Spa", items[0].Name)
	assert.Equal(t, StateFailed, state)
}
