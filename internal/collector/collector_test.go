package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

// fakeMarket serves canned responses for every external source from one
// test server, routed by path.
func fakeMarket(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/content/equities/EQUITY_L.csv", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "SYMBOL,NAME OF COMPANY\nRELIANCE,Reliance Industries Limited\nTCS,Tata Consultancy Services Limited\n")
	})

	mux.HandleFunc("/historical/cm/equity", func(w http.ResponseWriter, r *http.Request) {
		var rows []string
		for i := 0; i < 60; i++ {
			rows = append(rows, fmt.Sprintf(
				`{"CH_TIMESTAMP": "2026-%02d-%02d", "CH_CLOSING_PRICE": %d, "CH_TOT_TRADED_QTY": 1000}`,
				i/28+1, i%28+1, 100+i,
			))
		}
		fmt.Fprintf(w, `{"data": [%s]}`, strings.Join(rows, ","))
	})

	mux.HandleFunc("/company/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/screen/sector/IT/">Information Technology</a>
			<li class="flex"><span class="name">Stock P/E</span><span class="number">15.0</span></li>
			<li class="flex"><span class="name">ROE</span><span class="number">22%</span></li>
		</body></html>`)
	})

	mux.HandleFunc("/navall.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "Scheme Code;ISIN;ISIN;Scheme Name;Net Asset Value;Date\n119551;X;Y;Axis EQUITY Fund;45.21;28-Aug-2026\n")
	})

	mux.HandleFunc("/news", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<div class="eachStory"><h3><a href="/s1">Markets rally on strong earnings growth</a></h3></div>`)
	})

	// Commodity pages like /1.cms
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".cms") {
			fmt.Fprint(w, `<span class="commodityPrice">72345</span><span class="commodityChange">+0.5%</span>`)
			return
		}
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestCollector(t *testing.T, baseURL string) *Collector {
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

	return New(
		nseClient, screenerClient, amfiClient, mcxClient, sentimentSvc, cache,
		config.CollectorConfig{Workers: 4, SnapshotTTL: redis.TTLLong},
		log,
	)
}

func TestCollector_CollectSnapshot(t *testing.T) {
	server := fakeMarket(t)
	c := newTestCollector(t, server.URL)

	snapshot, err := c.CollectSnapshot(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.SymbolCount())
	assert.Contains(t, snapshot.Technical, "RELIANCE")
	assert.Contains(t, snapshot.Fundamental, "TCS")
	assert.Equal(t, "Information Technology", snapshot.Fundamental["TCS"].Sector)

	assert.Contains(t, snapshot.MutualFunds, "119551")
	assert.Contains(t, snapshot.Commodities, "Gold")
	assert.Len(t, snapshot.SIPPlans, 5)
	assert.Equal(t, "positive", snapshot.Sentiment.OverallMarket.Sentiment)
}

func TestCollector_CollectSnapshot_MaxStocks(t *testing.T) {
	server := fakeMarket(t)
	c := newTestCollector(t, server.URL)

	snapshot, err := c.CollectSnapshot(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.SymbolCount())
}

func TestCollector_CollectSnapshot_SourceFallbacks(t *testing.T) {
	// Every source down: symbol data ends up empty but funds, commodities,
	// and sentiment degrade to their fallbacks.
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)
	c := newTestCollector(t, server.URL)

	snapshot, err := c.CollectSnapshot(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 0, snapshot.SymbolCount())
	assert.NotEmpty(t, snapshot.MutualFunds)
	assert.NotEmpty(t, snapshot.Commodities)
	assert.Equal(t, "neutral", snapshot.Sentiment.OverallMarket.Sentiment)
}

func TestCollector_CachedSnapshot_Unavailable(t *testing.T) {
	server := fakeMarket(t)
	c := newTestCollector(t, server.URL)

	// Cache is disabled in tests, so nothing is ever stored
	_, err := c.CachedSnapshot(context.Background())
	require.Error(t, err)
}
