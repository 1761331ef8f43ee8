package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlens-labs/gridlens/internal/testutil"
	"github.com/gridlens-labs/gridlens/pkg/tabular"
)

// fakePlaces serves findplacefromtext and details with canned data keyed
// by query text and place ID.
type fakePlaces struct {
	places  map[string]string         // query -> place_id
	details map[string]map[string]any // place_id -> result object
	fail    bool
}

func (f *fakePlaces) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/findplacefromtext/json", func(w http.ResponseWriter, r *http.Request) {
		if f.fail {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "REQUEST_DENIED", "error_message": "key expired",
			})
			return
		}
		input := r.URL.Query().Get("input")
		if id, ok := f.places[input]; ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":     "OK",
				"candidates": []map[string]any{{"place_id": id}},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ZERO_RESULTS", "candidates": []any{},
		})
	})
	mux.HandleFunc("/details/json", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("place_id")
		result, ok := f.details[id]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{"status": "NOT_FOUND"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK", "result": result})
	})
	return mux
}

func newTestClient(t *testing.T, f *fakePlaces) *Client {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)
	return New("test-key", WithBaseURL(srv.URL))
}

func TestFindPlaceID(t *testing.T) {
	c := newTestClient(t, &fakePlaces{places: map[string]string{"LAX Airport": "pid-lax"}})

	id, found, err := c.FindPlaceID(context.Background(), "LAX Airport")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pid-lax", id)

	_, found, err = c.FindPlaceID(context.Background(), "nowhere")
	require.NoError(t, err, "zero results is not an error")
	assert.False(t, found)
}

func TestFindPlaceID_APIError(t *testing.T) {
	c := newTestClient(t, &fakePlaces{fail: true})

	_, _, err := c.FindPlaceID(context.Background(), "LAX Airport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
	assert.Contains(t, err.Error(), "key expired")
}

func TestDetails(t *testing.T) {
	c := newTestClient(t, &fakePlaces{details: map[string]map[string]any{
		"pid-lax": {"name": "Los Angeles International Airport", "rating": 3.9, "user_ratings_total": 12000},
		"pid-new": {"name": "Brand New Field"},
	}})

	d, err := c.Details(context.Background(), "pid-lax")
	require.NoError(t, err)
	assert.Equal(t, "Los Angeles International Airport", d.Name)
	require.NotNil(t, d.Rating)
	assert.Equal(t, 3.9, *d.Rating)
	require.NotNil(t, d.Reviews)
	assert.Equal(t, 12000, *d.Reviews)

	// A place with no ratings yet keeps nil pointers, not zeroes.
	d, err = c.Details(context.Background(), "pid-new")
	require.NoError(t, err)
	assert.Nil(t, d.Rating)
	assert.Nil(t, d.Reviews)
}

func TestFetchRatings_CodeMissesNameHits(t *testing.T) {
	c := newTestClient(t, &fakePlaces{
		places: map[string]string{"Ted Stevens Anchorage International": "pid-anc"},
		details: map[string]map[string]any{
			"pid-anc": {"name": "Ted Stevens Anchorage International Airport", "rating": 4.1, "user_ratings_total": 800},
		},
	})

	out, err := c.FetchRatings(context.Background(),
		[]Airport{{Code: "ANC", Name: "Ted Stevens Anchorage International"}},
		testutil.NewTestLogger(t))
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	assert.Equal(t, "ANC", out.Value(0, "APT_CODE").String())
	assert.Equal(t, "Ted Stevens Anchorage International Airport", out.Value(0, "GOOGLE_NAME").String())
	rating, ok := out.Value(0, "GOOGLE_RATING").Float()
	require.True(t, ok)
	assert.Equal(t, 4.1, rating)
}

func TestFetchRatings_BothMissYieldsNullRow(t *testing.T) {
	c := newTestClient(t, &fakePlaces{})

	out, err := c.FetchRatings(context.Background(),
		[]Airport{{Code: "XXX", Name: "No Such Place"}},
		testutil.NewTestLogger(t))
	require.NoError(t, err, "double miss is an empty result, not an error")
	require.Equal(t, 1, out.Len())

	assert.True(t, out.Value(0, "GOOGLE_NAME").IsNull())
	assert.True(t, out.Value(0, "GOOGLE_RATING").IsNull())
	assert.True(t, out.Value(0, "GOOGLE_REVIEWS").IsNull())
	assert.Equal(t, "XXX", out.Value(0, "APT_CODE").String())
}

func TestFetchRatings_UpstreamErrorNamesAirport(t *testing.T) {
	c := newTestClient(t, &fakePlaces{fail: true})

	_, err := c.FetchRatings(context.Background(),
		[]Airport{{Code: "JFK", Name: "John F. Kennedy International"}},
		testutil.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "airport JFK")
}

func TestAirportsFromTable(t *testing.T) {
	tbl := tabular.MustNew("APT_CODE", "APT_NAME")
	tbl.AppendRow(tabular.String("LAX"), tabular.String("Los Angeles International"))
	tbl.AppendRow(tabular.Null(), tabular.String("skipped"))
	tbl.AppendRow(tabular.String("JFK"), tabular.String("John F. Kennedy International"))

	airports, err := AirportsFromTable(tbl)
	require.NoError(t, err)
	require.Len(t, airports, 2, "null codes are skipped")
	assert.Equal(t, Airport{Code: "LAX", Name: "Los Angeles International"}, airports[0])
}

func TestAirportsFromTable_MissingColumn(t *testing.T) {
	tbl := tabular.MustNew("APT_CODE")
	_, err := AirportsFromTable(tbl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprintf("missing column %q", "APT_NAME"))
}
