package edamam

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	apperrors "github.com/yanqian/mealweek/pkg/errors"
)

const searchBody = `{
  "from": 1, "to": 2, "count": 2,
  "hits": [
    {"recipe": {
      "label": "Shakshuka",
      "image": "https://img.example/shakshuka.jpg",
      "url": "https://cook.example/shakshuka",
      "yield": 4,
      "calories": 1680.4,
      "ingredientLines": ["4 eggs", "1 can tomatoes"],
      "totalNutrients": {
        "PROCNT": {"label": "Protein", "quantity": 72.5, "unit": "g"},
        "FAT": {"label": "Fat", "quantity": 90.1, "unit": "g"}
      },
      "dietLabels": ["Low-Carb"],
      "healthLabels": ["Vegetarian"],
      "totalTime": 35
    }},
    {"recipe": {
      "label": "Toast",
      "yield": 0,
      "calories": 210,
      "totalTime": 0
    }},
    {"recipe": {"label": "  "}}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{
		BaseURL:    srv.URL + "/",
		AppID:      "app-id",
		AppKey:     "app-key",
		UserID:     "planner",
		MaxResults: 40,
		Random:     true,
	}, DefaultRetryConfig(), nil, newTestLogger())
	c.fetcher.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestClientSearchSendsCredentialsAndDecodesHits(t *testing.T) {
	var got *http.Request
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchBody))
	})

	params := url.Values{"q": {"breakfast"}, "calories": {"756-996"}, "cuisineType": {"italian", "mexican"}}
	pool, err := c.Search(context.Background(), params, nil)
	require.NoError(t, err)

	q := got.URL.Query()
	require.Equal(t, "breakfast", q.Get("q"))
	require.Equal(t, "756-996", q.Get("calories"))
	require.Equal(t, []string{"italian", "mexican"}, q["cuisineType"])
	require.Equal(t, "public", q.Get("type"))
	require.Equal(t, "app-id", q.Get("app_id"))
	require.Equal(t, "app-key", q.Get("app_key"))
	require.Equal(t, "REGULAR", q.Get("imageSize"))
	require.Equal(t, "0", q.Get("from"))
	require.Equal(t, "40", q.Get("to"))
	require.Equal(t, "true", q.Get("random"))
	require.Equal(t, "planner", got.Header.Get("Edamam-Account-User"))
	require.Len(t, params, 3, "caller params must not be mutated")

	require.Len(t, pool, 2)
	first := pool[0]
	require.Equal(t, "Shakshuka", first.Label)
	require.Equal(t, "https://cook.example/shakshuka", first.SourceURL)
	require.Equal(t, 4.0, first.Servings)
	require.InDelta(t, 1680.4, first.KcalTotal, 0.001)
	require.Equal(t, 72.5, first.NutrientsTotal["PROCNT"])
	require.Equal(t, []string{"Vegetarian"}, first.HealthLabels)
	require.NotNil(t, first.TotalTimeMinutes)
	require.Equal(t, 35.0, *first.TotalTimeMinutes)

	second := pool[1]
	require.Equal(t, 1.0, second.Servings)
	require.Nil(t, second.TotalTimeMinutes)
	require.Nil(t, second.NutrientsTotal)
}

func TestClientSearchMapsNon2xxToUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","message":"Unauthorized app_id"}`))
	})

	_, err := c.Search(context.Background(), url.Values{"q": {"lunch"}}, nil)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	require.Contains(t, err.Error(), "401")
}

func TestClientSearchMapsExhaustedRetriesToUpstreamError(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	events := make(chan mealplan.RetryEvent, 4)
	_, err := c.Search(context.Background(), url.Values{"q": {"dinner"}}, mealplan.ChannelObserver(events))
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	require.Equal(t, 3, calls)
	require.Len(t, events, 2)
}

func TestClientSearchMapsTransportFailureToNetworkError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, RetryConfig{MaxAttempts: 1}, nil, newTestLogger())

	_, err := c.Search(context.Background(), url.Values{"q": {"snack"}}, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNetwork))
}

func TestClientSearchRejectsMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"hits": [`))
	})

	_, err := c.Search(context.Background(), url.Values{"q": {"lunch"}}, nil)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDecodeFailure))
}
