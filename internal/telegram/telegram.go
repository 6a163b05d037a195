package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"steelleads-go/internal/model"
)

const (
	defaultAPIBase  = "https://api.telegram.org"
	messageLimit    = 4096
	sendMinInterval = 1200 * time.Millisecond
)

type Sender struct {
	token    string
	chat     string
	threadID *int
	apiBase  string

	client       *http.Client
	queue        chan string
	minInterval  time.Duration
	lastSentTime time.Time
}

type Option func(*Sender)

func WithAPIBase(base string) Option {
	return func(s *Sender) { s.apiBase = base }
}

func NewSender(token, chat string, threadID *int, options ...Option) *Sender {
	s := &Sender{
		token:       token,
		chat:        chat,
		threadID:    threadID,
		apiBase:     defaultAPIBase,
		client:      &http.Client{Timeout: 15 * time.Second},
		queue:       make(chan string, 100),
		minInterval: sendMinInterval,
	}
	for _, option := range options {
		option(s)
	}

	go s.worker()
	return s
}

func (s *Sender) SendAlert(lead model.Lead) {
	message := formatMessage(lead)
	for _, part := range splitMessage(message, messageLimit) {
		s.queue <- part
	}
}

func (s *Sender) worker() {
	for msg := range s.queue {
		s.sendWithRateLimit(msg)
	}
}

func (s *Sender) sendWithRateLimit(text string) {
	wait := time.Until(s.lastSentTime.Add(s.minInterval))
	if wait > 0 {
		time.Sleep(wait)
	}

	retryAfter, err := s.postMessage(text)
	if err != nil {
		if retryAfter > 0 {
			log.Printf("Telegram rate limit hit. Retrying after %s", retryAfter)
			time.Sleep(retryAfter)
			if _, retryErr := s.postMessage(text); retryErr != nil {
				log.Printf("Telegram retry failed: %v", retryErr)
				return
			}
			s.lastSentTime = time.Now()
			return
		}

		log.Printf("Telegram send error: %v", err)
		return
	}

	s.lastSentTime = time.Now()
}

func (s *Sender) postMessage(text string) (time.Duration, error) {
	payload := map[string]any{
		"chat_id":    s.chat,
		"text":       text,
		"parse_mode": "HTML",
	}
	if s.threadID != nil {
		payload["message_thread_id"] = *s.threadID
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.token), bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var parsed telegramResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)

	if resp.StatusCode == http.StatusTooManyRequests && parsed.Parameters.RetryAfter > 0 {
		return time.Duration(parsed.Parameters.RetryAfter) * time.Second, fmt.Errorf("rate limited")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("telegram error: %d %s", resp.StatusCode, parsed.Description)
	}

	return 0, nil
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
	Parameters  struct {
		RetryAfter int `json:"retry_after"`
	} `json:"parameters"`
}

func formatMessage(lead model.Lead) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📢 %s\n", lead.Title)
	fmt.Fprintf(&b, "🏢 Company: %s\n", orDash(lead.Company))
	fmt.Fprintf(&b, "🏗 Project: %s", orDash(lead.ProjectType))
	if lead.Location != "" {
		fmt.Fprintf(&b, " in %s", lead.Location)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "💰 Value: %s\n", orDash(lead.ContractValue))
	if lead.SteelRequirements != "" {
		fmt.Fprintf(&b, "🔩 Steel: %s\n", lead.SteelRequirements)
	}
	if lead.PotentialValue != "" {
		fmt.Fprintf(&b, "📈 Potential: %s\n", lead.PotentialValue)
	}
	if lead.TargetCompany != "" {
		fmt.Fprintf(&b, "🎯 Target: %s\n", lead.TargetCompany)
	}
	fmt.Fprintf(&b, "⏰ Urgency: %s\n", orDash(lead.Urgency))
	if lead.Tag != "" {
		fmt.Fprintf(&b, "🏷 Tag: %s\n", lead.Tag)
	}
	if lead.DatePublished != "" {
		fmt.Fprintf(&b, "🗓 Published: %s\n", lead.DatePublished)
	}
	if lead.SourceURL != "" {
		fmt.Fprintf(&b, "🔗 Source: %s", lead.SourceURL)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(value string) string {
	if value == "" {
		return "—"
	}
	return value
}

func splitMessage(message string, limit int) []string {
	runes := []rune(message)
	if len(runes) <= limit {
		return []string{message}
	}

	parts := []string{}
	for start := 0; start < len(runes); start += limit {
		end := start + limit
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}

// NopSender satisfies the pipeline's notifier when no chat is configured.
type NopSender struct{}

func (NopSender) SendAlert(model.Lead) {}
