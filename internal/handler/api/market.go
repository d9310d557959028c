package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"CoinPulse/internal/domain/models"
	domrepo "CoinPulse/internal/domain/repository"
	"CoinPulse/internal/usecase"
	"CoinPulse/pkg/cache"
	xhttp "CoinPulse/pkg/http"
	xlogger "CoinPulse/pkg/logger"
)

// MarketHandler exposes the market-data endpoints over Echo. The payload
// shapes follow the upstream-facing contract directly, without the envelope
// DataResponse wraps around error payloads.
type MarketHandler struct {
	logger         *xlogger.Logger
	store          *cache.Store
	prices         *usecase.Prices
	prediction     *usecase.Prediction
	sentiment      *usecase.Sentiment
	recommendation *usecase.Recommendation
	historical     *usecase.Historical
}

func NewMarketHandler(
	logger *xlogger.Logger,
	store *cache.Store,
	prices *usecase.Prices,
	prediction *usecase.Prediction,
	sentiment *usecase.Sentiment,
	recommendation *usecase.Recommendation,
	historical *usecase.Historical,
) *MarketHandler {
	return &MarketHandler{
		logger:         logger,
		store:          store,
		prices:         prices,
		prediction:     prediction,
		sentiment:      sentiment,
		recommendation: recommendation,
		historical:     historical,
	}
}

func (h *MarketHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ping", h.Ping)

	g := e.Group("/api")
	g.GET("/price", h.Price)
	g.GET("/predict", h.Predict)
	g.GET("/sentiment", h.Sentiment)
	g.GET("/recommendation", h.Recommendation)
	g.GET("/historical", h.Historical)
	g.GET("/cache/status", h.CacheStatus)
}

func (h *MarketHandler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "pong"})
}

// Price serves the live simple-price map. This is the one endpoint where a
// cold cache plus a dead upstream escalates to a request-level failure.
func (h *MarketHandler) Price(c echo.Context) error {
	prices, err := h.prices.Current(c.Request().Context())
	if err != nil {
		h.logger.Error("price endpoint failed", xlogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "price data unavailable",
		})
	}
	return c.JSON(http.StatusOK, prices)
}

func (h *MarketHandler) Predict(c echo.Context) error {
	return c.JSON(http.StatusOK, h.prediction.Predict(c.Request().Context()))
}

func (h *MarketHandler) Sentiment(c echo.Context) error {
	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return c.JSON(http.StatusOK, h.sentiment.Report(c.Request().Context(), req.Limit))
}

func (h *MarketHandler) Recommendation(c echo.Context) error {
	return c.JSON(http.StatusOK, h.recommendation.Signals(c.Request().Context()))
}

func (h *MarketHandler) Historical(c echo.Context) error {
	req := &models.HistoricalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	tf := domrepo.NormalizeTimeframe(req.Timeframe)
	return c.JSON(http.StatusOK, h.historical.Window(c.Request().Context(), tf))
}

func (h *MarketHandler) CacheStatus(c echo.Context) error {
	status, err := h.store.Status(c.Request().Context())
	if err != nil {
		h.logger.Error("cache status failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return c.JSON(http.StatusOK, status)
}
