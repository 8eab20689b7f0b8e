package download

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// NPARootURL lists the yearly pages of the regional suicide data release.
const NPARootURL = "https://www.mhlw.go.jp/stf/seisakunitsuite/bunya/0000140901.html"

var (
	npaYearLinkPattern   = regexp.MustCompile(`^地域における自殺の基礎資料[(（].*年[)）]`)
	npaProvisionalMarker = regexp.MustCompile(`[(（]暫定値[)）]`)
)

// FindNPAYearURLs returns the yearly page links of the root page.
func (c *Client) FindNPAYearURLs(ctx context.Context, root string) ([]string, error) {
	doc, err := c.document(ctx, root)
	if err != nil {
		return nil, err
	}
	return linkURLs(doc, root, npaYearLinkPattern.MatchString)
}

// FindNPAZipURLs returns the provisional monthly ZIP archive links of a
// yearly page, keyed by month.
func (c *Client) FindNPAZipURLs(ctx context.Context, yearURL string) (map[parser.Month]string, error) {
	doc, err := c.document(ctx, yearURL)
	if err != nil {
		return nil, err
	}
	urls := make(map[parser.Month]string)
	var ferr error
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !npaProvisionalMarker.MatchString(text) {
			return true
		}
		m, ok, err := parser.ParseWareki(text)
		if err != nil {
			ferr = err
			return false
		}
		if !ok {
			return true
		}
		href, ok := s.Attr("href")
		if !ok || !strings.HasSuffix(strings.ToLower(href), ".zip") {
			return true
		}
		u, err := resolve(yearURL, href)
		if err != nil {
			ferr = err
			return false
		}
		urls[m] = u
		return true
	})
	if ferr != nil {
		return nil, ferr
	}
	log.Debugf("Zip links found in '%s': %v", yearURL, urls)
	return urls, nil
}

// NPAZipURLs returns the monthly ZIP links within period.
func (c *Client) NPAZipURLs(ctx context.Context, root string, period Period) (map[parser.Month]string, error) {
	years, err := c.FindNPAYearURLs(ctx, root)
	if err != nil {
		return nil, err
	}
	log.Debugf("Year urls detected: %v", years)
	out := make(map[parser.Month]string)
	for _, y := range years {
		urls, err := c.FindNPAZipURLs(ctx, y)
		if err != nil {
			return nil, err
		}
		for m, u := range urls {
			if !period.Contains(m) {
				log.Debugf("%s: '%s' is out of target period", m, u)
				continue
			}
			out[m] = u
		}
	}
	return out, nil
}

// DownloadNPA saves the monthly ZIP archives within period to saveDir as YYYY-MM.zip.
func (c *Client) DownloadNPA(ctx context.Context, root, saveDir string, period Period, replace bool) ([]Download, error) {
	urls, err := c.NPAZipURLs(ctx, root, period)
	if err != nil {
		return nil, err
	}
	return c.fetchAll(ctx, urls, saveDir, ".zip", replace)
}
