package bse

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"steelleads-go/internal/model"
	"steelleads-go/internal/providers/common"
)

// Company is a BSE-listed firm whose corporate announcements are tracked.
type Company struct {
	Name      string
	Symbol    string
	ScripCode string
}

var TargetCompanies = []Company{
	{Name: "Larsen & Toubro Ltd", Symbol: "LT", ScripCode: "500510"},
	{Name: "Rail Vikas Nigam Ltd", Symbol: "RVNL", ScripCode: "542649"},
	{Name: "IRB Infrastructure Developers Ltd", Symbol: "IRB", ScripCode: "532947"},
	{Name: "KEC International Ltd", Symbol: "KEC", ScripCode: "532714"},
	{Name: "Kalpataru Projects International Ltd", Symbol: "KPIL", ScripCode: "522287"},
	{Name: "NBCC (India) Ltd", Symbol: "NBCC", ScripCode: "534309"},
	{Name: "Afcons Infrastructure Ltd", Symbol: "AFCONS", ScripCode: "544280"},
	{Name: "IRCON International Ltd", Symbol: "IRCON", ScripCode: "541956"},
	{Name: "NCC Limited", Symbol: "NCC", ScripCode: "500294"},
	{Name: "Reliance Infrastructure Ltd", Symbol: "RELINFRA", ScripCode: "500390"},
	{Name: "PNC Infratech Ltd", Symbol: "PNCINFRA", ScripCode: "539150"},
}

// projectKeywords filter announcements down to contract/project news.
var projectKeywords = []string{
	"project", "contract", "order", "steel", "infrastructure",
	"awarded", "wins", "secured", "bags", "development", "execution",
	"tender", "bid", "loa", "letter of award", "work order",
	"construction", "metro", "railway", "road", "highway", "bridge",
}

const (
	defaultBaseURL     = "https://api.bseindia.com/BseIndiaAPI/api/AnnGetData/w"
	attachmentURLBase  = "http://www.bseindia.com/stockinfo/AnnPdfOpen.aspx?Pname="
	bseUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	defaultLookback    = 30 * 24 * time.Hour
	companyConcurrency = 3
)

type Scraper struct {
	client    *http.Client
	base      string
	companies []Company
	lookback  time.Duration
	now       func() time.Time
}

type Option func(*Scraper)

func WithBaseURL(base string) Option {
	return func(s *Scraper) { s.base = base }
}

func WithCompanies(companies []Company) Option {
	return func(s *Scraper) { s.companies = companies }
}

func WithClock(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

func NewScraper(client *http.Client, options ...Option) *Scraper {
	s := &Scraper{
		client:    client,
		base:      defaultBaseURL,
		companies: TargetCompanies,
		lookback:  defaultLookback,
		now:       time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Scraper) Name() string {
	return "bse"
}

// The announcements feed is loosely typed: scrip codes arrive as numbers,
// string fields are sometimes null, and a few fields switch type between rows.
type bseResponse struct {
	Table []map[string]any `json:"Table"`
}

func (s *Scraper) Fetch(ctx context.Context) ([]model.ContractNews, error) {
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(companyConcurrency)

	var mu sync.Mutex
	news := []model.ContractNews{}

	for _, company := range s.companies {
		company := company
		group.Go(func() error {
			items, err := s.fetchCompany(gctx, company)
			if err != nil {
				log.Printf("[bse] %s failed: %v", company.Symbol, err)
				return nil
			}
			log.Printf("[bse] %s found %d project announcements", company.Symbol, len(items))
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

func (s *Scraper) fetchCompany(ctx context.Context, company Company) ([]model.ContractNews, error) {
	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.base, nil)
	if err != nil {
		return nil, err
	}

	today := s.now()
	q := req.URL.Query()
	q.Set("strCat", "-1")
	q.Set("strPrevDate", today.Add(-s.lookback).Format("20060102"))
	q.Set("strScrip", company.ScripCode)
	q.Set("strSearch", "P")
	q.Set("strToDate", today.Format("20060102"))
	q.Set("strType", "C")
	req.URL.RawQuery = q.Encode()

	req.Header.Set("User-Agent", bseUserAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Origin", "https://www.bseindia.com")
	req.Header.Set("Referer", "https://www.bseindia.com/")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var payload bseResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	news := make([]model.ContractNews, 0, len(payload.Table))
	for _, row := range payload.Table {
		if scrip := common.ToInt64(row["SCRIP_CD"]); scrip > 0 && strconv.FormatInt(scrip, 10) != company.ScripCode {
			continue
		}

		title := strings.TrimSpace(common.ToString(row["NEWSSUB"]))
		if title == "" || !isProjectRelated(title) {
			continue
		}

		category := common.ToString(row["CATEGORYNAME"])
		combined := title + " " + company.Name + " " + category
		news = append(news, model.ContractNews{
			Title:         title,
			Company:       company.Name,
			ProjectType:   common.ExtractProjectType(combined),
			Location:      common.ExtractLocation(combined),
			ContractValue: common.ExtractContractValue(combined),
			DatePublished: parseAnnouncementDate(common.ToString(row["NEWS_DT"]), s.now).Format("2006-01-02"),
			SourceURL:     strings.TrimSpace(attachmentURLBase + common.ToString(row["ATTACHMENTNAME"])),
			Description:   category,
		})
	}
	return news, nil
}

func isProjectRelated(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range projectKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func parseAnnouncementDate(value string, now func() time.Time) time.Time {
	value = strings.TrimSpace(value)
	if i := strings.IndexByte(value, '.'); i >= 0 {
		value = value[:i]
	}
	layouts := []string{"2006-01-02T15:04:05", "02 Jan 2006"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return now()
}
