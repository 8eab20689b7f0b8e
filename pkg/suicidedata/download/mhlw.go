package download

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/gofiber/fiber/v2/log"
	"github.com/ukaji3/jpsuicide-go/pkg/suicidedata/parser"
)

// MHLWRootURL lists the monthly pages of the vital statistics prompt release on e-Stat.
const MHLWRootURL = "https://www.e-stat.go.jp/stat-search/files?page=1&layout=datalist&toukei=00450011&tstat=000001028897&cycle=1&tclass1=000001053058&tclass2=000001053060&result_back=1&tclass3val=0"

// mhlwKeywords must all appear in the title of the target table link
// (prefecture x cause of death x sex x age).
var mhlwKeywords = []string{"県", "死因", "性", "年齢"}

var (
	mhlwMonthLinkPattern = regexp.MustCompile(`^\d+月$`)
	seirekiPattern       = regexp.MustCompile(`(\d{4})年(\d{1,2})月`)
)

const (
	fileDownloadMarker = "stat-search/file-download"
	fileListMarker     = "stat-search/files"
)

// FindMHLWMonthURLs returns the monthly page links of the root page.
func (c *Client) FindMHLWMonthURLs(ctx context.Context, root string) ([]string, error) {
	doc, err := c.document(ctx, root)
	if err != nil {
		return nil, err
	}
	urls, err := linkURLs(doc, root, mhlwMonthLinkPattern.MatchString)
	if err != nil {
		return nil, err
	}
	log.Infof("%d month urls detected", len(urls))
	return urls, nil
}

// FindMHLWFileLink finds the target table of a monthly page and returns its
// month and download URL. ok is false when the page has no unique target.
func (c *Client) FindMHLWFileLink(ctx context.Context, monthURL string) (m parser.Month, fileURL string, ok bool, err error) {
	doc, err := c.document(ctx, monthURL)
	if err != nil {
		return m, "", false, err
	}

	// anchors and divs in document order
	nodes := doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		name := goquery.NodeName(s)
		return name == "a" || name == "div"
	})

	target := -1
	nodes.EachWithBreak(func(i int, s *goquery.Selection) bool {
		if goquery.NodeName(s) != "a" || !hasKeywords(strings.TrimSpace(s.Text())) {
			return true
		}
		if target >= 0 {
			target = -2
			return false
		}
		target = i
		return true
	})
	switch target {
	case -1:
		log.Warnf("Target link not found in '%s'", monthURL)
		return m, "", false, nil
	case -2:
		log.Warnf("Multiple target links found in '%s'", monthURL)
		return m, "", false, nil
	}

	var monthFound bool
	var href string
	nodes.Slice(target+1, nodes.Length()).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		switch goquery.NodeName(s) {
		case "div":
			if !monthFound {
				if sm := seirekiPattern.FindStringSubmatch(stripSpace(s.Text())); sm != nil {
					year, _ := strconv.Atoi(sm[1])
					month, _ := strconv.Atoi(sm[2])
					m, monthFound = parser.Month{Year: year, Month: month}, true
				}
			}
		case "a":
			h, has := s.Attr("href")
			if !has {
				return true
			}
			if strings.Contains(h, fileDownloadMarker) {
				href = h
				return false
			}
			if strings.Contains(h, fileListMarker) {
				return false
			}
		}
		return true
	})
	if !monthFound || href == "" {
		log.Infof("Year-month or file link not found in '%s'", monthURL)
		return m, "", false, nil
	}
	fileURL, err = resolve(monthURL, href)
	if err != nil {
		return m, "", false, err
	}
	return m, fileURL, true, nil
}

// MHLWFileURLs returns the monthly file links within period.
func (c *Client) MHLWFileURLs(ctx context.Context, root string, period Period) (map[parser.Month]string, error) {
	months, err := c.FindMHLWMonthURLs(ctx, root)
	if err != nil {
		return nil, err
	}
	out := make(map[parser.Month]string)
	for _, u := range months {
		m, fileURL, ok, err := c.FindMHLWFileLink(ctx, u)
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Warnf("Target file link not found in '%s'", u)
			continue
		}
		if period.Contains(m) {
			out[m] = fileURL
		}
	}
	log.Infof("%d file links detected", len(out))
	return out, nil
}

// DownloadMHLW saves the monthly files within period to saveDir as
// YYYY-MM.xls. The real format is detected when the file is parsed.
func (c *Client) DownloadMHLW(ctx context.Context, root, saveDir string, period Period, replace bool) ([]Download, error) {
	urls, err := c.MHLWFileURLs(ctx, root, period)
	if err != nil {
		return nil, err
	}
	return c.fetchAll(ctx, urls, saveDir, ".xls", replace)
}

func hasKeywords(text string) bool {
	for _, k := range mhlwKeywords {
		if !strings.Contains(text, k) {
			return false
		}
	}
	return true
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
