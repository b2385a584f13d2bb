package handlers

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finzo/backend/internal/collector"
	"github.com/finzo/backend/internal/engine"
	"github.com/finzo/backend/internal/external/amfi"
	"github.com/finzo/backend/internal/external/mcx"
	"github.com/finzo/backend/internal/external/nse"
	"github.com/finzo/backend/internal/external/screener"
	"github.com/finzo/backend/internal/sentiment"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/httputil"
	"github.com/finzo/backend/pkg/logger"
	"github.com/finzo/backend/pkg/redis"
)

const validProfile = `{
	"monthly_income": 100000,
	"monthly_expenses": 50000,
	"current_savings": 500000,
	"investment_time_horizon": 10,
	"risk_tolerance": 5
}`

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func testEngine() *engine.Engine {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	return engine.New(cfg.Engine, testLogger())
}

// testCollector wires real clients against the given base URL with the
// cache disabled, so CachedSnapshot always misses.
func testCollector(t *testing.T, baseURL string) *collector.Collector {
	t.Helper()

	cfg := &config.Config{LogLevel: "error", LogFormat: "json"}
	log := logger.New(cfg)
	httpClient := httputil.New(cfg, log).DisableRetry()

	redisClient, err := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	cache := redis.NewCache(redisClient, "finzo-test")

	nseClient := nse.NewClient(config.NSEConfig{ArchivesURL: baseURL, APIURL: baseURL}, httpClient, log)
	screenerClient := screener.NewClient(config.ScreenerConfig{BaseURL: baseURL}, httpClient, log)
	amfiClient := amfi.NewClient(config.AMFIConfig{NAVURL: baseURL + "/navall.txt"}, httpClient, log)
	mcxClient := mcx.NewClient(config.MCXConfig{BaseURL: baseURL}, httpClient, log)

	fetcher := sentiment.NewFetcher(config.NewsConfig{BaseURL: baseURL + "/news"}, httpClient, log)
	sentimentSvc := sentiment.NewService(fetcher, sentiment.NewAnalyzer(), log)

	return collector.New(
		nseClient, screenerClient, amfiClient, mcxClient, sentimentSvc, cache,
		config.CollectorConfig{Workers: 2, SnapshotTTL: redis.TTLLong},
		log,
	)
}

func emptyMarket(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	return server
}

func postProfile(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestProfileHandler_GetCapacity(t *testing.T) {
	h := NewProfileHandler(testEngine(), testLogger())

	rec := postProfile(h.GetCapacity, validProfile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "recommended_monthly_investment")
}

func TestProfileHandler_GetCapacity_ZeroIncome(t *testing.T) {
	h := NewProfileHandler(testEngine(), testLogger())

	// No income with outstanding debt drives the debt-to-income ratio to
	// infinity, which must come back as null rather than break encoding.
	body := `{
		"monthly_income": 0,
		"monthly_expenses": 0,
		"current_debt": 50000,
		"investment_time_horizon": 5,
		"risk_tolerance": 5
	}`

	rec := postProfile(h.GetCapacity, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"debt_to_income_ratio":null`)
}

func TestRespondJSON_UnencodablePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, math.Inf(1))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestProfileHandler_GetAllocation(t *testing.T) {
	h := NewProfileHandler(testEngine(), testLogger())

	rec := postProfile(h.GetAllocation, validProfile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "equity_breakdown")
}

func TestProfileHandler_GetGuidance(t *testing.T) {
	h := NewProfileHandler(testEngine(), testLogger())

	rec := postProfile(h.GetGuidance, validProfile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "investment_strategies")
	assert.Contains(t, rec.Body.String(), "risk_management")
}

func TestProfileHandler_InvalidBody(t *testing.T) {
	h := NewProfileHandler(testEngine(), testLogger())

	rec := postProfile(h.GetCapacity, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfileHandler_NegativeIncome(t *testing.T) {
	h := NewProfileHandler(testEngine(), testLogger())

	rec := postProfile(h.GetCapacity, `{"monthly_income": -5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestRecommendations_NoSnapshot(t *testing.T) {
	server := emptyMarket(t)
	h := NewRecommendationsHandler(testEngine(), testCollector(t, server.URL), nil, testLogger())

	rec := postProfile(h.GetBundle, validProfile)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = postProfile(h.GetStocks, validProfile)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecommendations_InvalidBody(t *testing.T) {
	server := emptyMarket(t)
	h := NewRecommendationsHandler(testEngine(), testCollector(t, server.URL), nil, testLogger())

	rec := postProfile(h.GetBundle, "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketHandler_Refresh(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/navall.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "Scheme Code;ISIN;ISIN;Scheme Name;Net Asset Value;Date\n119551;X;Y;Axis EQUITY Fund;45.21;28-Aug-2026\n")
	})
	mux.Handle("/", http.NotFoundHandler())
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cfg := &config.Config{Collector: config.CollectorConfig{MaxStocks: 1}}
	h := NewMarketHandler(testCollector(t, server.URL), nil, cfg, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/market/refresh", nil)
	rec := httptest.NewRecorder()
	h.Refresh(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	// Fallback samples keep funds and commodities non-empty
	assert.Contains(t, rec.Body.String(), `"mutual_funds":1`)
}

func TestMarketHandler_GetSnapshot_Unavailable(t *testing.T) {
	server := emptyMarket(t)
	cfg := &config.Config{}
	h := NewMarketHandler(testCollector(t, server.URL), nil, cfg, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/market/snapshot", nil)
	rec := httptest.NewRecorder()
	h.GetSnapshot(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStreamHandler_RequiresUpgrade(t *testing.T) {
	server := emptyMarket(t)
	h := NewStreamHandler(testCollector(t, server.URL), testLogger())

	// A plain GET without websocket headers is rejected by the upgrader
	req := httptest.NewRequest(http.MethodGet, "/api/market/live", nil)
	rec := httptest.NewRecorder()
	h.Live(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
