// Package providers holds the external lookup sources for the dictionary chain.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vytor/wordflash/internal/dictionary"
	"github.com/vytor/wordflash/internal/logger"
)

// Names used in PROVIDERS and as WordEntry.Source.
const (
	NameDictionaryAPI = "dictionaryapi"
	NameWiktionary    = "wiktionary"
	NameCambridge     = "cambridge"
	NameOpenAI        = "openai"
)

const (
	defaultUserAgent = "wordflash/1.0 (+https://github.com/vytor/wordflash)"
	defaultMaxBytes  = 2 << 20
)

// fetcher performs bounded GET requests.
type fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

func newFetcher(hc *http.Client) fetcher {
	if hc == nil {
		// The chain enforces per-call deadlines; this only guards direct use.
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return fetcher{httpClient: hc, userAgent: defaultUserAgent, maxBytes: defaultMaxBytes}
}

// get fetches url and returns at most maxBytes of the body. A 404 maps to
// dictionary.ErrNotFound.
func (f fetcher) get(ctx context.Context, name, url, accept string) ([]byte, error) {
	log := logger.FromContext(ctx).WithPrefix("provider:" + name)
	log.Debug("GET %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", name, dictionary.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s status %d: %s", name, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", name, err)
	}
	return body, nil
}
