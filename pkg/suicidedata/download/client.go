// Package download discovers and fetches statistics releases from the
// publishers' web pages.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// Client fetches pages and files. Each request is made once; retries are
// left to the caller.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient returns a client with a request timeout.
func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 2 * time.Minute}}
}

// Download is one fetched release file.
type Download struct {
	Month parser.Month
	URL   string
	Path  string
}

// Period bounds the months to fetch, inclusive.
type Period struct {
	From parser.Month
	To   parser.Month
}

// AllTime covers every release.
var AllTime = Period{From: parser.Month{Year: 1000, Month: 1}, To: parser.Month{Year: 9999, Month: 12}}

// ParsePeriod parses YYYY-MM bounds. An empty bound is open.
func ParsePeriod(from, to string) (Period, error) {
	p := AllTime
	var err error
	if from != "" {
		if p.From, err = parseMonth(from); err != nil {
			return p, err
		}
	}
	if to != "" {
		if p.To, err = parseMonth(to); err != nil {
			return p, err
		}
	}
	if p.To.Before(p.From) {
		return p, fmt.Errorf("empty period: %s to %s", p.From, p.To)
	}
	return p, nil
}

func parseMonth(s string) (parser.Month, error) {
	var m parser.Month
	if _, err := fmt.Sscanf(s, "%d-%d", &m.Year, &m.Month); err != nil || m.Month < 1 || m.Month > 12 {
		return m, fmt.Errorf("invalid month %q (want YYYY-MM)", s)
	}
	return m, nil
}

// Contains reports whether m lies within the period.
func (p Period) Contains(m parser.Month) bool {
	return !m.Before(p.From) && !p.To.Before(m)
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return resp, nil
}

// document fetches and parses an HTML page.
func (c *Client) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return goquery.NewDocumentFromReader(resp.Body)
}

// Retrieve saves the body of rawURL to savePath, creating parent directories.
func (c *Client) Retrieve(ctx context.Context, rawURL, savePath string) error {
	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return err
	}
	resp, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	f, err := os.Create(savePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(savePath)
		return err
	}
	return f.Close()
}

// fetchAll downloads each month's URL to saveDir/<YYYY-MM><ext>. Existing
// files are kept unless replace is set.
func (c *Client) fetchAll(ctx context.Context, urls map[parser.Month]string, saveDir, ext string, replace bool) ([]Download, error) {
	months := make([]parser.Month, 0, len(urls))
	for m := range urls {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	var downloaded []Download
	for _, m := range months {
		savePath := filepath.Join(saveDir, m.String()+ext)
		if !replace {
			if _, err := os.Stat(savePath); err == nil {
				log.Debugf("'%s' already exists, skipped", savePath)
				continue
			}
		}
		if err := c.Retrieve(ctx, urls[m], savePath); err != nil {
			return downloaded, err
		}
		log.Infof("Downloaded '%s' -> '%s'", urls[m], savePath)
		downloaded = append(downloaded, Download{Month: m, URL: urls[m], Path: savePath})
	}
	return downloaded, nil
}

// resolve returns href relative to base.
func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return b.ResolveReference(h).String(), nil
}

// linkURLs returns the distinct resolved hrefs of anchors whose trimmed
// text satisfies keep, sorted.
func linkURLs(doc *goquery.Document, base string, keep func(text string) bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	var err error
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !keep(strings.TrimSpace(s.Text())) {
			return true
		}
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		var u string
		if u, err = resolve(base, href); err != nil {
			return false
		}
		if !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
		return true
	})
	sort.Strings(out)
	return out, err
}
