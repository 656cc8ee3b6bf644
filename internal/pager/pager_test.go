package pager_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/internal/pager"
	"github.com/houssinOuchen/Good-Food-Good-Mood-Project/models"
)

func recipes(ids ...int64) []models.Recipe {
	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Recipe{ID: id, Title: "r"})
	}
	return out
}

func newPager() *pager.Pager[models.Recipe, int64] {
	return pager.New(models.RecipeKey)
}

func ids(p *pager.Pager[models.Recipe, int64]) []int64 {
	out := []int64{}
	for _, r := range p.Items() {
		out = append(out, r.ID)
	}
	return out
}

func TestPager_LoadMoreAppends(t *testing.T) {
	p := newPager()
	assert.Equal(t, pager.Idle, p.Status())

	req := p.Reset("")
	assert.Equal(t, pager.Loading, p.Status())
	assert.Equal(t, 0, req.Page)
	require.True(t, p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1, 2), Last: false}, nil))
	assert.Equal(t, pager.Loaded, p.Status())
	assert.True(t, p.HasMore())

	req, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, 1, req.Page)
	require.True(t, p.Resolve(req, models.Page[models.Recipe]{Content: recipes(3), Last: true}, nil))

	assert.Equal(t, []int64{1, 2, 3}, ids(p))
	assert.False(t, p.HasMore())
	_, ok = p.Next()
	assert.False(t, ok, "no request past the last page")
}

func TestPager_NoDoubleFetch(t *testing.T) {
	p := newPager()
	req := p.Reset("")
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1), Last: false}, nil)

	_, ok := p.Next()
	require.True(t, ok)
	_, ok = p.Next()
	assert.False(t, ok, "second load-more while one is in flight")
}

func TestPager_DropsDuplicates(t *testing.T) {
	p := newPager()
	req := p.Reset("")
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1, 2), Last: false}, nil)
	req, _ = p.Next()
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(2, 3), Last: true}, nil)

	assert.Equal(t, []int64{1, 2, 3}, ids(p))
}

func TestPager_StaleResponseDiscarded(t *testing.T) {
	p := newPager()
	first := p.Reset("soup")
	second := p.Reset("chicken")

	assert.False(t, p.Resolve(first, models.Page[models.Recipe]{Content: recipes(9), Last: true}, nil))
	assert.Empty(t, p.Items())
	assert.Equal(t, pager.Loading, p.Status())

	assert.True(t, p.Resolve(second, models.Page[models.Recipe]{Content: recipes(1), Last: false}, nil))
	assert.Equal(t, []int64{1}, ids(p))
	assert.Equal(t, "chicken", p.Query())

	// A late answer to the first request changes nothing.
	assert.False(t, p.Resolve(first, models.Page[models.Recipe]{Content: recipes(7), Last: true}, nil))
	assert.Equal(t, []int64{1}, ids(p))
	assert.True(t, p.HasMore())
}

func TestPager_LoadMoreMadeStaleBySearch(t *testing.T) {
	p := newPager()
	req := p.Reset("")
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1), Last: false}, nil)

	more, ok := p.Next()
	require.True(t, ok)
	search := p.Reset("chicken")

	assert.False(t, p.Resolve(more, models.Page[models.Recipe]{Content: recipes(2), Last: false}, nil))
	assert.True(t, p.Resolve(search, models.Page[models.Recipe]{Content: recipes(5), Last: true}, nil))
	assert.Equal(t, []int64{5}, ids(p))
}

func TestPager_NewSearchRecomputesHasMore(t *testing.T) {
	p := newPager()
	req := p.Reset("old")
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1), Last: true}, nil)
	assert.False(t, p.HasMore())

	req = p.Reset("chicken")
	assert.Equal(t, 0, req.Page)
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(2), Last: false}, nil)
	assert.True(t, p.HasMore())
	assert.Equal(t, 1, p.NextPage())
}

func TestPager_Error(t *testing.T) {
	p := newPager()
	req := p.Reset("")
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1), Last: false}, nil)

	req, _ = p.Next()
	boom := errors.New("boom")
	require.True(t, p.Resolve(req, models.EmptyPage[models.Recipe](), boom))
	assert.Equal(t, pager.Errored, p.Status())
	assert.ErrorIs(t, p.Err(), boom)
	assert.Equal(t, []int64{1}, ids(p), "rows already shown stay")
	assert.Equal(t, 1, p.NextPage(), "failed page is not skipped")

	req = p.Reload()
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1, 2), Last: true}, nil)
	assert.NoError(t, p.Err())
	assert.Equal(t, []int64{1, 2}, ids(p))
}

func TestPager_RemoveAndReplace(t *testing.T) {
	p := newPager()
	req := p.Reset("")
	p.Resolve(req, models.Page[models.Recipe]{Content: recipes(1, 2, 3), Last: true}, nil)

	assert.True(t, p.Remove(2))
	assert.False(t, p.Remove(42))
	assert.Equal(t, []int64{1, 3}, ids(p))
	assert.Equal(t, 2, p.Len())

	assert.True(t, p.Replace(models.Recipe{ID: 3, Title: "renamed"}))
	assert.Equal(t, "renamed", p.Items()[1].Title)
	assert.False(t, p.Replace(models.Recipe{ID: 99}))
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "idle", pager.Idle.String())
	assert.Equal(t, "loading", pager.Loading.String())
	assert.Equal(t, "loaded", pager.Loaded.String())
	assert.Equal(t, "errored", pager.Errored.String())
}
