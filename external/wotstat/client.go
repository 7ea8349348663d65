package wotstat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/domain/points"
	"github.com/riskibarqy/tournament-data/internal/domain/settings"
	"github.com/riskibarqy/tournament-data/internal/domain/team"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
	"github.com/riskibarqy/tournament-data/internal/platform/resilience"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultConcurrency = 4
	maxPageSize        = 4 << 20
	userAgent          = "Mozilla/5.0 (compatible; tournament-data/1.0)"
)

var (
	numberRegex         = regexp.MustCompile(`[\d,]+`)
	errWotstatTransient = crerr.New("wotstat transient failure")
)

type ClientConfig struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	Concurrency    int
	RatePerSecond  float64
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
	Now            func() time.Time
}

// Client reads session points for team members from the wotstat site.
type Client struct {
	httpClient  *http.Client
	concurrency int
	limiter     *rate.Limiter
	breaker     *resilience.CircuitBreaker
	logger      *logging.Logger
	now         func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout < 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	breakerCfg := cfg.CircuitBreaker
	onStateChange := breakerCfg.OnStateChange
	breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
		logger.Warn("wotstat circuit state changed", "from", from, "to", to)
		if onStateChange != nil {
			onStateChange(from, to)
		}
	}

	return &Client{
		httpClient:  httpClient,
		concurrency: concurrency,
		limiter:     rate.NewLimiter(limit, 1),
		breaker:     resilience.NewCircuitBreaker(breakerCfg),
		logger:      logger,
		now:         now,
	}
}

// GetTeamPoints looks up every member of t. Lookups that fail are reported in
// the entry itself; only a cancelled context fails the whole call.
func (c *Client) GetTeamPoints(ctx context.Context, t team.Team, s settings.Settings) (points.Report, error) {
	baseURL := s.BaseURL()
	entries := make([]points.PlayerPoints, len(t.Players))

	p := pool.New().WithMaxGoroutines(c.concurrency)
	for i, member := range t.Players {
		p.Go(func() {
			entries[i] = c.playerPoints(ctx, baseURL, t, member, s)
		})
	}
	p.Wait()

	if err := ctx.Err(); err != nil {
		return points.Report{}, err
	}

	report := points.NewReport(t.ID, t.Name, entries, c.now())
	c.logger.InfoContext(ctx, "team points computed",
		"team_id", t.ID,
		"players", report.TotalPlayers,
		"success", report.SuccessCount,
		"total_points", report.TotalPoints,
	)
	return report, nil
}

func (c *Client) playerPoints(ctx context.Context, baseURL string, t team.Team, m team.Member, s settings.Settings) points.PlayerPoints {
	lastX := firstPositive(m.WotstatLastX, t.WotstatLastX, s.WotstatDefaultLastX, document.DefaultWotstatLastX)
	level := firstPositive(m.WotstatLevel, t.WotstatLevel, s.WotstatDefaultLevel, document.DefaultWotstatLevel)

	out := points.PlayerPoints{
		PlayerID:   m.PlayerID,
		Nickname:   m.Nickname,
		ClanTag:    m.ClanTag,
		Bucket:     m.Bucket,
		LastX:      lastX,
		Level:      level,
		WotstatURL: PlayerURL(baseURL, m.Nickname, lastX, level),
	}
	if strings.TrimSpace(m.Nickname) == "" {
		out.Error = "nickname is empty"
		return out
	}

	var pts, rating float64
	err := c.breaker.Execute(func() error {
		var fetchErr error
		pts, rating, fetchErr = c.fetch(ctx, out.WotstatURL)
		return fetchErr
	}, isTransient)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.WarnContext(ctx, "wotstat lookup failed", "nickname", m.Nickname, "error", err)
		}
		out.Error = err.Error()
		return out
	}

	out.Points = pts
	out.Rating = rating
	out.Success = true
	return out
}

func (c *Client) fetch(ctx context.Context, target string) (float64, float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, 0, crerr.Wrap(err, "build wotstat request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, crerr.Mark(crerr.Wrap(err, "wotstat request"), errWotstatTransient)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("HTTP %d", resp.StatusCode)
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return 0, 0, crerr.Mark(statusErr, errWotstatTransient)
		}
		return 0, 0, statusErr
	}

	pts, rating, err := ParsePage(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return 0, 0, err
	}
	return pts, rating, nil
}

// PlayerURL builds the session page address for one player.
func PlayerURL(baseURL, nickname string, lastX, level int) string {
	q := url.Values{}
	q.Set("nickname", nickname)
	q.Set("lastX", strconv.Itoa(lastX))
	q.Set("level", strconv.Itoa(level))

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + q.Encode()
}

// ParsePage extracts points and rating from a session page. When no points
// element is found the first number of the main content is used instead.
func ParsePage(r io.Reader) (float64, float64, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, 0, crerr.Wrap(err, "parse wotstat page")
	}

	pts := firstNumber(selectionText(doc.Find(".points, .score, [data-points]").First(), "data-points"))
	rating := firstNumber(selectionText(doc.Find(".rating, [data-rating]").First(), "data-rating"))
	if pts == 0 {
		pts = firstNumber(doc.Find("main, .content, .stats").First().Text())
	}
	return pts, rating, nil
}

func selectionText(sel *goquery.Selection, attr string) string {
	if sel.Length() == 0 {
		return ""
	}
	if text := strings.TrimSpace(sel.Text()); text != "" {
		return text
	}
	v, _ := sel.Attr(attr)
	return v
}

func firstNumber(text string) float64 {
	match := numberRegex.FindString(text)
	if match == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

func isTransient(err error) bool {
	return crerr.Is(err, errWotstatTransient)
}
