package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/valuepulse/internal/domain/dto"
	"github.com/guttosm/valuepulse/internal/middleware"
	"github.com/guttosm/valuepulse/internal/service"
	"github.com/guttosm/valuepulse/internal/storage"
	"github.com/guttosm/valuepulse/internal/tickers"
)

// maxHistoryLimit caps the limit query parameter of the history endpoint.
const maxHistoryLimit = 200

// Handler provides HTTP handlers for the evaluation endpoints.
//
// Responsibilities:
//   - Parse and validate query parameters and request bodies
//   - Delegate to the evaluation service with the request context
//   - Translate service results into response DTOs
type Handler struct {
	svc service.EvaluationService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.EvaluationService) *Handler {
	return &Handler{svc: svc}
}

// GetEvaluate handles GET /api/v1/evaluate.
//
// GetEvaluate godoc
// @Summary      Evaluate tickers
// @Description  Validates the tickers, fetches fundamentals and scores every symbol. Without tickers the watchlist is used.
// @Tags         evaluate
// @Produce      json
// @Param        tickers  query     string  false  "Comma separated tickers" example(AAPL,MSFT)
// @Success      200      {object}  dto.EvaluateResponse  "Success"
// @Failure      422      {object}  dto.ErrorResponse     "No valid tickers"
// @Failure      500      {object}  dto.ErrorResponse     "Internal Error"
// @Router       /api/v1/evaluate [get]
func (h *Handler) GetEvaluate(c *gin.Context) {
	raw := tickers.ParseSymbols(c.Query("tickers"))
	if len(raw) == 0 {
		raw = tickers.ParseSymbols(h.svc.Watchlist(c.Request.Context()).Default)
	}
	h.evaluate(c, raw)
}

// PostEvaluate handles POST /api/v1/evaluate.
//
// PostEvaluate godoc
// @Summary      Evaluate tickers
// @Description  Same as the GET variant with the tickers supplied in the body
// @Tags         evaluate
// @Accept       json
// @Produce      json
// @Param        request  body      dto.EvaluateRequest   true  "Tickers to evaluate"
// @Success      200      {object}  dto.EvaluateResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse     "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse     "No valid tickers"
// @Router       /api/v1/evaluate [post]
func (h *Handler) PostEvaluate(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	h.evaluate(c, req.Tickers)
}

func (h *Handler) evaluate(c *gin.Context, raw []string) {
	run, err := h.svc.Evaluate(c.Request.Context(), raw)
	if errors.Is(err, service.ErrNoValidTickers) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse("no valid tickers supplied", err))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.EvaluateResponse{
		Requested:   run.Requested,
		Tickers:     run.Validation.Symbols,
		Confirmed:   run.Validation.Confirmed,
		Failures:    run.Failures(),
		Evaluations: run.Evaluations,
	})
}

// GetSections handles GET /api/v1/tickers/:ticker/sections.
//
// GetSections godoc
// @Summary      Raw sections
// @Description  Returns the six normalized sections, the buyback flag, cache info and the first fetch error
// @Tags         tickers
// @Produce      json
// @Param        ticker  path      string  true  "Ticker" example(AAPL)
// @Success      200     {object}  models.Bundle      "Success"
// @Failure      400     {object}  dto.ErrorResponse  "Bad Request"
// @Failure      429     {object}  models.Bundle      "Provider cooldown, no data"
// @Router       /api/v1/tickers/{ticker}/sections [get]
func (h *Handler) GetSections(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("ticker is required", nil))
		return
	}

	bundle := h.svc.Sections(c.Request.Context(), ticker)
	if bundle.Error.RateLimited() && !bundle.HasData() {
		if rl := bundle.Error.RateLimit; rl.Remaining > 0 {
			c.Header("Retry-After", strconv.Itoa(rl.Remaining))
		}
		c.JSON(http.StatusTooManyRequests, bundle)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// PostValidate handles POST /api/v1/tickers/validate.
//
// PostValidate godoc
// @Summary      Validate tickers
// @Description  Returns canonical symbols recognised by the quote provider
// @Tags         tickers
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ValidateRequest   true  "Tickers to validate"
// @Success      200      {object}  dto.ValidateResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse     "Bad Request"
// @Router       /api/v1/tickers/validate [post]
func (h *Handler) PostValidate(c *gin.Context) {
	var req dto.ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	res := h.svc.Validate(c.Request.Context(), req.Tickers)
	c.JSON(http.StatusOK, dto.ValidateResponse{
		Tickers:   res.Symbols,
		Confirmed: res.Confirmed,
		Reason:    res.Reason,
	})
}

// GetWatchlist handles GET /api/v1/watchlist.
//
// GetWatchlist godoc
// @Summary      Watchlist
// @Description  Returns the validated watchlist and the default ticker string
// @Tags         watchlist
// @Produce      json
// @Success      200  {object}  dto.WatchlistResponse  "Success"
// @Router       /api/v1/watchlist [get]
func (h *Handler) GetWatchlist(c *gin.Context) {
	wl := h.svc.Watchlist(c.Request.Context())
	c.JSON(http.StatusOK, dto.WatchlistResponse{
		Path:    wl.Path,
		Tickers: wl.Symbols,
		Default: wl.Default,
	})
}

// GetRateLimit handles GET /api/v1/ratelimit.
//
// GetRateLimit godoc
// @Summary      Provider cooldown
// @Description  Returns the active rate limit with the seconds remaining, if any
// @Tags         ratelimit
// @Produce      json
// @Success      200  {object}  dto.RateLimitResponse  "Success"
// @Router       /api/v1/ratelimit [get]
func (h *Handler) GetRateLimit(c *gin.Context) {
	active := h.svc.Cooldown()
	c.JSON(http.StatusOK, dto.RateLimitResponse{Active: active != nil, RateLimit: active})
}

// GetHistory handles GET /api/v1/history/:ticker.
//
// GetHistory godoc
// @Summary      Evaluation history
// @Description  Returns recent verdicts for a ticker, newest first
// @Tags         history
// @Produce      json
// @Param        ticker  path      string  true   "Ticker" example(AAPL)
// @Param        limit   query     int     false  "Maximum entries" example(20)
// @Success      200     {object}  dto.HistoryResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404     {object}  dto.ErrorResponse    "History disabled"
// @Failure      500     {object}  dto.ErrorResponse    "Internal Error"
// @Router       /api/v1/history/{ticker} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ticker := strings.ToUpper(strings.TrimSpace(c.Param("ticker")))

	limit := storage.DefaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxHistoryLimit {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("limit must be between 1 and 200", err))
			return
		}
		limit = n
	}

	entries, err := h.svc.History(c.Request.Context(), ticker, limit)
	switch {
	case errors.Is(err, storage.ErrHistoryDisabled):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("evaluation history is disabled", nil))
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to load history", err)
		return
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Ticker: ticker, Entries: entries})
}
