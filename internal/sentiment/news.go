package sentiment

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/finzo/backend/internal/contracts"
	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/httputil"
	"github.com/finzo/backend/pkg/logger"
)

const maxHeadlines = 30

// Fetcher scrapes market headlines from the configured news listing page.
type Fetcher struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewFetcher creates a news headline fetcher
func NewFetcher(cfg config.NewsConfig, httpClient *httputil.Client, log *logger.Logger) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		logger:     log.WithField("module", "news"),
		baseURL:    cfg.BaseURL,
	}
}

// FetchHeadlines scrapes the latest market headlines. Only titles are
// collected; article bodies are skipped to keep the crawl to one request.
func (f *Fetcher) FetchHeadlines(ctx context.Context) ([]Article, error) {
	resp, err := f.httpClient.Get(ctx, f.baseURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	articles := f.parseListing(string(body))
	f.logger.WithField("count", len(articles)).Debug("Fetched headlines")
	return articles, nil
}

// parseListing extracts story titles from the listing HTML. Several
// selectors are tried because the listing markup differs between the
// top-stories and section pages.
func (f *Fetcher) parseListing(html string) []Article {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		f.logger.WithError(err).Warn("Failed to parse news listing")
		return nil
	}

	var articles []Article
	seen := make(map[string]bool)

	add := func(s *goquery.Selection) {
		if len(articles) >= maxHeadlines {
			return
		}
		title := strings.TrimSpace(s.Text())
		if title == "" || seen[title] {
			return
		}
		seen[title] = true

		href, _ := s.Attr("href")
		articles = append(articles, Article{
			Title:  title,
			Source: "Economic Times",
			URL:    href,
		})
	}

	doc.Find("div.eachStory h3 a").Each(func(_ int, s *goquery.Selection) { add(s) })
	doc.Find("ul.newsList li a").Each(func(_ int, s *goquery.Selection) { add(s) })

	return articles
}

// Service couples the fetcher and analyzer behind one call that always
// produces a usable bundle.
type Service struct {
	fetcher  *Fetcher
	analyzer *Analyzer
	logger   *logger.Logger
}

// NewService creates a sentiment service
func NewService(fetcher *Fetcher, analyzer *Analyzer, log *logger.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		analyzer: analyzer,
		logger:   log.WithField("module", "sentiment"),
	}
}

// MarketSentiment fetches headlines and aggregates their sentiment.
// Fetch failures degrade to the neutral bundle so scoring never blocks
// on the news source.
func (s *Service) MarketSentiment(ctx context.Context) contracts.SentimentBundle {
	articles, err := s.fetcher.FetchHeadlines(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Headline fetch failed, using neutral sentiment")
		return contracts.NeutralSentiment()
	}
	if len(articles) == 0 {
		s.logger.Warn("No headlines found, using neutral sentiment")
		return contracts.NeutralSentiment()
	}

	bundle := s.analyzer.Analyze(articles)
	s.logger.WithFields(map[string]interface{}{
		"articles": len(articles),
		"overall":  bundle.OverallMarket.Sentiment,
	}).Info("Analyzed market sentiment")
	return bundle
}
