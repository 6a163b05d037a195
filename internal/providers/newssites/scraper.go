package newssites

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"steelleads-go/internal/model"
)

// Extractor turns a page's markdown rendition into structured news items.
type Extractor interface {
	ExtractNews(ctx context.Context, markdown, sourceURL string) ([]model.ContractNews, error)
}

// Site is a news source whose landing page lists contract-award articles.
type Site struct {
	Name string
	URL  string
}

var DefaultSites = []Site{
	{Name: "Economic Times Infrastructure", URL: "https://economictimes.indiatimes.com/industry/indl-goods/svs/construction/articlelist/13358759.cms"},
	{Name: "Construction World", URL: "https://www.constructionworld.in/latest-infrastructure-news"},
	{Name: "Business Standard Infrastructure", URL: "https://www.business-standard.com/industry/infrastructure"},
	{Name: "BidDetail EPC", URL: "https://www.biddetail.com/procurement-news/epc-contract"},
	{Name: "News on Projects", URL: "https://newsonprojects.com"},
	{Name: "Construction Opportunities", URL: "https://constructionopportunities.in/"},
	{Name: "Project X India", URL: "https://projectxindia.com"},
	{Name: "Metro Rail Today", URL: "https://metrorailtoday.com"},
	{Name: "The Metro Rail Guy", URL: "https://themetrorailguy.com"},
	{Name: "Projects Today", URL: "https://www.projectstoday.com"},
	{Name: "Biltrax", URL: "https://www.biltrax.com"},
}

const (
	siteUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	siteConcurrency = 2
	// maxMarkdownLen caps the extraction prompt input to stay inside model
	// context limits.
	maxMarkdownLen = 50_000
)

type Scraper struct {
	client    *http.Client
	extractor Extractor
	sites     []Site
}

type Option func(*Scraper)

func WithSites(sites []Site) Option {
	return func(s *Scraper) { s.sites = sites }
}

func NewScraper(client *http.Client, extractor Extractor, options ...Option) *Scraper {
	s := &Scraper{
		client:    client,
		extractor: extractor,
		sites:     DefaultSites,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Scraper) Name() string {
	return "newssites"
}

func (s *Scraper) Fetch(ctx context.Context) ([]model.ContractNews, error) {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(siteConcurrency)

	var mu sync.Mutex
	news := []model.ContractNews{}

	for _, site := range s.sites {
		site := site
		group.Go(func() error {
			items, err := s.fetchSite(gctx, site)
			if err != nil {
				log.Printf("[newssites] %s failed: %v", site.Name, err)
				return nil
			}
			log.Printf("[newssites] %s found %d news items", site.Name, len(items))
			mu.Lock()
			news = append(news, items...)
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return news, err
	}
	return news, nil
}

func (s *Scraper) fetchSite(ctx context.Context, site Site) ([]model.ContractNews, error) {
	markdown, err := s.fetchMarkdown(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	if markdown == "" {
		return nil, nil
	}
	return s.extractor.ExtractNews(ctx, markdown, site.URL)
}

// fetchMarkdown downloads a page, strips non-content nodes, and converts the
// remaining body to markdown.
func (s *Scraper) fetchMarkdown(ctx context.Context, url string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", siteUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, iframe, svg").Remove()

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}
	if body == "" {
		return "", nil
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("markdown conversion: %w", err)
	}
	return truncate(markdown, maxMarkdownLen), nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
