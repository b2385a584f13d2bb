package nse

import (
	"context"
	"fmt"
	"net/http"

	"github.com/finzo/backend/pkg/config"
	"github.com/finzo/backend/pkg/httputil"
	"github.com/finzo/backend/pkg/logger"
)

// Client handles communication with NSE. The listed-equity CSV comes from
// the archives host; per-symbol price history comes from the API host.
type Client struct {
	httpClient  *httputil.Client
	logger      *logger.Logger
	archivesURL string
	apiURL      string
}

// NewClient creates a new NSE client
func NewClient(cfg config.NSEConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		logger:      log.WithField("module", "nse"),
		archivesURL: cfg.ArchivesURL,
		apiURL:      cfg.APIURL,
	}
}

func (c *Client) get(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp, nil
}
