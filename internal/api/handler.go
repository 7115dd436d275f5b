package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cryptopulse/internal/domain/dto"
	"github.com/guttosm/cryptopulse/internal/domain/errs"
	"github.com/guttosm/cryptopulse/internal/service"
)

// Handler provides HTTP handlers for the crypto statistics endpoints.
//
// Responsibilities:
//   - Validate incoming HTTP path/query parameters
//   - Interact with the query service
//   - Translate service results and typed errors into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	svc service.CryptoService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.CryptoService) *Handler {
	return &Handler{svc: svc}
}

// GetStats handles GET /api/v1/cryptos/:symbol/stats requests.
//
// GetStats godoc
// @Summary      Get statistics for one symbol
// @Description  Returns oldest/newest/min/max price and normalized range for the given symbol
// @Tags         cryptos
// @Produce      json
// @Param        symbol  path      string  true  "Coin ticker" example(BTC)
// @Success      200     {object}  dto.CryptoStatsResponse  "Success"
// @Failure      400     {object}  dto.ErrorResponse        "Unsupported symbol"
// @Failure      404     {object}  dto.ErrorResponse        "No data for symbol"
// @Failure      429     {object}  dto.ErrorResponse        "Rate limit exceeded"
// @Failure      500     {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/cryptos/{symbol}/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("symbol is required", nil))
		return
	}

	stats, err := h.svc.GetStats(c.Request.Context(), symbol)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCryptoStats(stats))
}

// GetAllSortedStats handles GET /api/v1/cryptos/stats requests.
//
// GetAllSortedStats godoc
// @Summary      Get statistics for all symbols
// @Description  Returns stats for every symbol with data, sorted by normalized range descending
// @Tags         cryptos
// @Produce      json
// @Success      200  {array}   dto.CryptoStatsResponse  "Success"
// @Failure      429  {object}  dto.ErrorResponse        "Rate limit exceeded"
// @Failure      500  {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/cryptos/stats [get]
func (h *Handler) GetAllSortedStats(c *gin.Context) {
	ranking, err := h.svc.GetAllSortedStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCryptoStatsList(ranking))
}

// GetHighestRangeForDate handles GET /api/v1/cryptos/highest-range requests.
//
// GetHighestRangeForDate godoc
// @Summary      Get the most volatile symbol for a day
// @Description  Returns the stats of the symbol with the highest normalized range within the given UTC day
// @Tags         cryptos
// @Produce      json
// @Param        date  query     string  true  "Day in YYYY-MM-DD (UTC)" example(2022-01-01)
// @Success      200   {object}  dto.CryptoStatsResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse        "Missing or invalid date"
// @Failure      404   {object}  dto.ErrorResponse        "No data for date"
// @Failure      429   {object}  dto.ErrorResponse        "Rate limit exceeded"
// @Failure      500   {object}  dto.ErrorResponse        "Internal Error"
// @Router       /api/v1/cryptos/highest-range [get]
func (h *Handler) GetHighestRangeForDate(c *gin.Context) {
	raw := c.Query("date")
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("date is required", nil))
		return
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid date format, expected YYYY-MM-DD", err))
		return
	}

	stats, err := h.svc.GetHighestRangeForDate(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCryptoStats(stats))
}

// respondError maps typed domain errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var unsupported *errs.UnsupportedSymbolError
	var notFound *errs.NotFoundError
	var rateLimited *errs.RateLimitError

	switch {
	case errors.As(err, &unsupported):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(unsupported.Error(), nil))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(notFound.Error(), nil))
	case errors.As(err, &rateLimited):
		c.JSON(http.StatusTooManyRequests, dto.NewErrorResponse(rateLimited.Error(), nil))
	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to fetch statistics", err))
	}
}
