package edamam

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	apperrors "github.com/yanqian/mealweek/pkg/errors"
	"github.com/yanqian/mealweek/pkg/metrics"
)

const (
	defaultBaseURL    = "https://api.edamam.com/api/recipes/v2"
	accountUserHeader = "Edamam-Account-User"
	errorBodyLimit    = 512
)

// Config carries account credentials and paging defaults.
type Config struct {
	BaseURL    string
	AppID      string
	AppKey     string
	UserID     string
	MaxResults int
	ImageSize  string
	Random     bool
	Timeout    time.Duration
}

// Client searches recipes on the Edamam Recipe Search v2 API.
type Client struct {
	cfg     Config
	fetcher *Fetcher
	logger  *slog.Logger
}

// NewClient builds an API client.
func NewClient(cfg Config, retry RetryConfig, collector *metrics.Collector, logger *slog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 60
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "REGULAR"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:     cfg,
		fetcher: NewFetcher(&http.Client{Timeout: cfg.Timeout}, retry, collector, logger),
		logger:  logger.With("component", "edamam.client"),
	}
}

// Search runs one recipe query. params comes from mealplan.BuildQuery;
// credentials, paging and the randomize flag are added here.
func (c *Client) Search(ctx context.Context, params url.Values, observer mealplan.RetryObserver) (mealplan.RecipePool, error) {
	req, err := c.newRequest(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "build recipe search request", err)
	}

	resp, err := c.fetcher.Do(ctx, req, observer)
	if err != nil {
		if errors.Is(err, ErrNetwork) {
			return nil, apperrors.Wrap(apperrors.CodeNetwork, "recipe search unreachable; check your connection", err)
		}
		return nil, apperrors.Wrap(apperrors.CodeUpstream, "recipe search failed", err)
	}
	if !resp.OK() {
		return nil, apperrors.Wrap(apperrors.CodeUpstream, fmt.Sprintf("recipe search returned status %d", resp.StatusCode), errors.New(upstreamMessage(resp)))
	}

	var raw searchResponse
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDecodeFailure, "decode recipe search response", err)
	}
	pool := normalizeHits(raw.Hits)
	c.logger.Debug("recipe search completed", "q", params.Get("q"), "calories", params.Get("calories"), "hits", len(pool))
	return pool, nil
}

func (c *Client) newRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	query.Set("type", "public")
	query.Set("app_id", c.cfg.AppID)
	query.Set("app_key", c.cfg.AppKey)
	query.Set("imageSize", c.cfg.ImageSize)
	query.Set("from", "0")
	query.Set("to", strconv.Itoa(c.cfg.MaxResults))
	query.Set("random", strconv.FormatBool(c.cfg.Random))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserID != "" {
		req.Header.Set(accountUserHeader, c.cfg.UserID)
	}
	return req, nil
}

type searchResponse struct {
	From  int   `json:"from"`
	To    int   `json:"to"`
	Count int   `json:"count"`
	Hits  []hit `json:"hits"`
}

type hit struct {
	Recipe recipe `json:"recipe"`
}

type recipe struct {
	Label           string              `json:"label"`
	Image           string              `json:"image"`
	URL             string              `json:"url"`
	Yield           float64             `json:"yield"`
	IngredientLines []string            `json:"ingredientLines"`
	Calories        float64             `json:"calories"`
	TotalNutrients  map[string]nutrient `json:"totalNutrients"`
	DietLabels      []string            `json:"dietLabels"`
	HealthLabels    []string            `json:"healthLabels"`
	TotalTime       float64             `json:"totalTime"`
}

type nutrient struct {
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func normalizeHits(hits []hit) mealplan.RecipePool {
	pool := make(mealplan.RecipePool, 0, len(hits))
	for _, h := range hits {
		r := h.Recipe
		if strings.TrimSpace(r.Label) == "" {
			continue
		}
		servings := r.Yield
		if servings < 1 {
			servings = 1
		}
		var nutrients map[string]float64
		if len(r.TotalNutrients) > 0 {
			nutrients = make(map[string]float64, len(r.TotalNutrients))
			for code, n := range r.TotalNutrients {
				nutrients[code] = n.Quantity
			}
		}
		out := &mealplan.Recipe{
			Label:           r.Label,
			ImageURL:        r.Image,
			SourceURL:       r.URL,
			Servings:        servings,
			KcalTotal:       r.Calories,
			NutrientsTotal:  nutrients,
			IngredientLines: r.IngredientLines,
			DietLabels:      r.DietLabels,
			HealthLabels:    r.HealthLabels,
		}
		if r.TotalTime > 0 {
			minutes := r.TotalTime
			out.TotalTimeMinutes = &minutes
		}
		pool = append(pool, out)
	}
	return pool
}

func upstreamMessage(resp Response) string {
	body := strings.TrimSpace(string(resp.Body))
	if body == "" {
		return http.StatusText(resp.StatusCode)
	}
	if len(body) > errorBodyLimit {
		body = body[:errorBodyLimit]
	}
	return body
}
