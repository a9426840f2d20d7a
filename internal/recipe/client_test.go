package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/recipe_buddy/internal/testutil"
)

// fakeAPI serves a search page of n recipes and a detail document for any id.
type fakeAPI struct {
	results     int
	searchCalls atomic.Int32
	getCalls    atomic.Int32
	lastQuery   atomic.Value
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		f.searchCalls.Add(1)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "r", r.URL.Query().Get("sort"))
		f.lastQuery.Store(r.URL.Query().Get("q"))

		recipes := make([]Summary, f.results)
		for i := range recipes {
			recipes[i] = Summary{ID: fmt.Sprintf("id-%d", i), Title: fmt.Sprintf("Recipe %d", i)}
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Count: len(recipes), Recipes: &recipes})
	})
	mux.HandleFunc("/api/get", func(w http.ResponseWriter, r *http.Request) {
		f.getCalls.Add(1)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		id := r.URL.Query().Get("rId")
		_ = json.NewEncoder(w).Encode(getResponse{Recipe: &Recipe{
			ID:          id,
			Title:       "Title of " + id,
			Ingredients: []string{"salt", "water"},
		}})
	})
	return mux
}

func newTestClient(t *testing.T, baseURL string, pick IndexFunc) *Client {
	t.Helper()
	c, err := New(Config{APIKey: "test-key", BaseURL: baseURL, IndexFunc: pick, Timeout: time.Second})
	require.NoError(t, err)
	return c
}

func fixed(i int) IndexFunc {
	return func(int) int { return i }
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, c.BaseURL())
	assert.Equal(t, SortRating, c.sort)
	assert.Equal(t, defaultTimeout, c.timeout)
	assert.NotNil(t, c.http)

	for i := 0; i < 200; i++ {
		idx := c.pick(SearchPageSize)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, SearchPageSize)
	}
}

func TestLookup_FullPage(t *testing.T) {
	api := &fakeAPI{results: SearchPageSize}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	c := newTestClient(t, server.URL+"/", fixed(17))

	got, err := c.Lookup(context.Background(), "chicken")
	require.NoError(t, err)
	assert.Equal(t, "id-17", got.ID)
	assert.Equal(t, "Title of id-17", got.Title)
	assert.Equal(t, []string{"salt", "water"}, got.Ingredients)
	assert.Equal(t, "chicken", api.lastQuery.Load())
	assert.EqualValues(t, 1, api.searchCalls.Load())
	assert.EqualValues(t, 1, api.getCalls.Load())
}

func TestLookup_DrawRange(t *testing.T) {
	var seen []int
	api := &fakeAPI{results: SearchPageSize}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	c := newTestClient(t, server.URL, func(n int) int {
		seen = append(seen, n)
		return n - 1
	})

	got, err := c.Lookup(context.Background(), "rice")
	require.NoError(t, err)
	assert.Equal(t, []int{SearchPageSize}, seen)
	assert.Equal(t, "id-29", got.ID)
}

func TestLookup_SmallResultSetsFailForEveryDraw(t *testing.T) {
	for _, size := range []int{0, 1, 5, SearchPageSize - 1} {
		api := &fakeAPI{results: size}
		server := httptest.NewServer(api.handler(t))

		for idx := 0; idx < SearchPageSize; idx++ {
			c := newTestClient(t, server.URL, fixed(idx))
			_, err := c.Lookup(context.Background(), "kale")
			if idx < size {
				assert.NoError(t, err, "size=%d idx=%d", size, idx)
				continue
			}
			assert.ErrorIs(t, err, ErrNoRecipe, "size=%d idx=%d", size, idx)
		}
		server.Close()
	}
}

func TestLookup_SmallResultSetNeverCallsGetOnMiss(t *testing.T) {
	api := &fakeAPI{results: 3}
	server := httptest.NewServer(api.handler(t))
	defer server.Close()

	c := newTestClient(t, server.URL, fixed(3))
	_, err := c.Lookup(context.Background(), "kale")
	assert.ErrorIs(t, err, ErrNoRecipe)
	assert.EqualValues(t, 0, api.getCalls.Load())
}

func TestLookup_PropagatesAPIFailures(t *testing.T) {
	t.Run("search status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid key", http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL, fixed(0)).Lookup(context.Background(), "egg")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
		assert.NotErrorIs(t, err, ErrNoRecipe)
		assert.Contains(t, err.Error(), "403")
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL, fixed(0)).Lookup(context.Background(), "egg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse response")
	})

	t.Run("search without recipes", func(t *testing.T) {
		api := &fakeAPI{results: SearchPageSize}
		mux := http.NewServeMux()
		mux.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":"limit"}`))
		})
		mux.Handle("/api/get", api.handler(t))
		server := httptest.NewServer(mux)
		defer server.Close()

		_, err := newTestClient(t, server.URL, fixed(0)).Lookup(context.Background(), "egg")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
		assert.NotErrorIs(t, err, ErrNoRecipe)
		assert.Contains(t, err.Error(), `"limit"`)
		assert.Zero(t, api.getCalls.Load())
	})

	for name, body := range map[string]string{
		"get with api error":   `{"error":"limit"}`,
		"get with null recipe": `{"recipe":null}`,
		"get without title":    `{"recipe":{"recipe_id":"id-0","ingredients":["salt"]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			api := &fakeAPI{results: SearchPageSize}
			mux := http.NewServeMux()
			mux.Handle("/api/search", api.handler(t))
			mux.HandleFunc("/api/get", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			server := httptest.NewServer(mux)
			defer server.Close()

			found, err := newTestClient(t, server.URL, fixed(0)).Lookup(context.Background(), "egg")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedResponse)
			assert.Empty(t, found.Title)
		})
	}

	t.Run("get status", func(t *testing.T) {
		api := &fakeAPI{results: SearchPageSize}
		mux := http.NewServeMux()
		mux.Handle("/api/search", api.handler(t))
		mux.HandleFunc("/api/get", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		_, err := newTestClient(t, server.URL, fixed(0)).Lookup(context.Background(), "egg")
		assert.ErrorIs(t, err, ErrUnexpectedStatus)
	})

	t.Run("transport", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()

		_, err := newTestClient(t, server.URL, fixed(0)).Lookup(context.Background(), "egg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request failed")
	})
}

func TestSearch_EmptyPageIsNotMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":0,"recipes":[]}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, fixed(0))
	results, err := c.Search(context.Background(), "egg")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = c.Lookup(context.Background(), "egg")
	assert.ErrorIs(t, err, ErrNoRecipe)
}

func TestLookup_PerCallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	c, err := New(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Search(context.Background(), "slow")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGet_FillsMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"recipe": {"title": "Soup", "ingredients": ["salt"]}}`))
	}))
	defer server.Close()

	got, err := newTestClient(t, server.URL, fixed(0)).Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, Recipe{ID: "abc", Title: "Soup", Ingredients: []string{"salt"}}, got)
}

func TestLookup_RecordedFood2Fork(t *testing.T) {
	rec := testutil.NewVCRRecorder(t, "food2fork_chicken")

	c, err := New(Config{
		APIKey:     "test-key",
		HTTPClient: testutil.VCRHTTPClient(rec),
		IndexFunc:  fixed(2),
	})
	require.NoError(t, err)

	got, err := c.Lookup(context.Background(), "chicken")
	require.NoError(t, err)
	assert.Equal(t, "36453", got.ID)
	assert.Equal(t, "Chicken Tikka Masala", got.Title)
	assert.Equal(t, []string{
		"2 cloves garlic",
		"1 tablespoon grated ginger",
		"1 cup plain yogurt",
		"2 pounds chicken thighs",
		"1 can tomato sauce",
	}, got.Ingredients)
}
