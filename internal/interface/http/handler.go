package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/mealweek/internal/domain/mealplan"
	"github.com/yanqian/mealweek/internal/domain/nutrition"
	apperrors "github.com/yanqian/mealweek/pkg/errors"
)

const progressBuffer = 16

// PlanHandler wires the HTTP transport to the meal plan service.
type PlanHandler struct {
	svc    mealplan.Service
	cfg    mealplan.Config
	logger *slog.Logger
}

// NewPlanHandler constructs the plan HTTP handler.
func NewPlanHandler(svc mealplan.Service, cfg mealplan.Config, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		svc:    svc,
		cfg:    cfg,
		logger: logger.With("component", "http.handler"),
	}
}

type planResponse struct {
	ID          string                `json:"id"`
	GeneratedAt time.Time             `json:"generatedAt"`
	DailyKcal   int                   `json:"dailyKcal"`
	Weekdays    []string              `json:"weekdays"`
	Filters     mealplan.Filters      `json:"filters"`
	Slots       []mealplan.SlotResult `json:"slots"`
	Rows        []mealplan.PlanRow    `json:"rows"`
}

func newPlanResponse(plan mealplan.Plan) planResponse {
	return planResponse{
		ID:          plan.ID,
		GeneratedAt: plan.GeneratedAt,
		DailyKcal:   plan.DailyKcal,
		Weekdays:    mealplan.Weekdays[:],
		Filters:     plan.Filters,
		Slots:       plan.Slots,
		Rows:        plan.Rows(),
	}
}

// GeneratePlan handles the synchronous plan endpoint.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	plan, err := h.svc.GeneratePlan(c.Request.Context(), req, nil)
	if err != nil {
		abortWithError(c, planError(err))
		return
	}

	c.JSON(http.StatusOK, newPlanResponse(plan))
}

type planResult struct {
	plan mealplan.Plan
	err  error
}

// StreamPlan generates a plan while streaming retry progress as
// Server-Sent Events. The final frame is either "plan" or "error".
func (h *PlanHandler) StreamPlan(c *gin.Context) {
	req, ok := h.bindPlanRequest(c)
	if !ok {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "stream_unsupported", "streaming not supported", nil))
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	events := make(chan mealplan.RetryEvent, progressBuffer)
	done := make(chan planResult, 1)
	go func() {
		plan, err := h.svc.GeneratePlan(ctx, req, mealplan.ChannelObserver(events))
		done <- planResult{plan: plan, err: err}
	}()

	for {
		select {
		case event := <-events:
			h.writeEvent(c, flusher, "progress", event)
		case result := <-done:
			h.drainProgress(c, flusher, events)
			if result.err != nil {
				httpErr := planError(result.err)
				h.logger.Warn("streamed plan failed", "code", httpErr.Code, "error", result.err)
				h.writeEvent(c, flusher, "error", gin.H{"code": httpErr.Code, "message": httpErr.Message})
				return
			}
			h.writeEvent(c, flusher, "plan", newPlanResponse(result.plan))
			return
		case <-ctx.Done():
			h.logger.Info("plan stream closed by client")
			return
		}
	}
}

func (h *PlanHandler) drainProgress(c *gin.Context, flusher http.Flusher, events <-chan mealplan.RetryEvent) {
	for {
		select {
		case event := <-events:
			h.writeEvent(c, flusher, "progress", event)
		default:
			return
		}
	}
}

func (h *PlanHandler) writeEvent(c *gin.Context, flusher http.Flusher, name string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("marshal event failed", "event", name, "error", err)
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", name, data)
	flusher.Flush()
}

type caloriesRequest struct {
	Profile     nutrition.ProfileInput `json:"profile"`
	MealsPerDay int                    `json:"mealsPerDay"`
}

type caloriesResponse struct {
	BMR       int                   `json:"bmr"`
	DailyKcal int                   `json:"dailyKcal"`
	Slots     []mealplan.SlotTarget `json:"slots"`
}

// Calories reports the daily and per-slot calorie targets for a profile.
func (h *PlanHandler) Calories(c *gin.Context) {
	var req caloriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	profile, err := req.Profile.ToProfile()
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	meals := req.MealsPerDay
	if meals == 0 {
		meals = h.cfg.DefaultMealsPerDay
	}
	if meals < 1 || (h.cfg.MaxMealsPerDay > 0 && meals > h.cfg.MaxMealsPerDay) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, fmt.Sprintf("mealsPerDay must be between 1 and %d", h.cfg.MaxMealsPerDay), nil))
		return
	}
	target, err := h.svc.Targets(profile, meals)
	if err != nil {
		abortWithError(c, planError(err))
		return
	}
	c.JSON(http.StatusOK, caloriesResponse{
		BMR:       int(math.Round(nutrition.BMR(profile))),
		DailyKcal: target.DailyKcal,
		Slots:     target.Slots,
	})
}

func (h *PlanHandler) bindPlanRequest(c *gin.Context) (mealplan.PlanRequest, bool) {
	var body mealplan.Request
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return mealplan.PlanRequest{}, false
	}
	req, err := body.Normalize(h.cfg)
	if err != nil {
		abortWithError(c, planError(err))
		return mealplan.PlanRequest{}, false
	}
	return req, true
}

// planError maps domain error codes onto HTTP statuses.
func planError(err error) *HTTPError {
	code := apperrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidInput, apperrors.CodeCuisineLimit:
		status = http.StatusBadRequest
	case apperrors.CodeNoMatches:
		status = http.StatusNotFound
	case apperrors.CodeNetwork:
		status = http.StatusServiceUnavailable
	case apperrors.CodeUpstream, apperrors.CodeDecodeFailure:
		status = http.StatusBadGateway
	default:
		code = "plan_failed"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
