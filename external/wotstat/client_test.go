package wotstat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-data/internal/domain/player"
	"github.com/riskibarqy/tournament-data/internal/domain/settings"
	"github.com/riskibarqy/tournament-data/internal/domain/team"
	"github.com/riskibarqy/tournament-data/internal/platform/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func member(id int64, nickname string, lastX, level int) team.Member {
	return team.Member{
		Player:       player.Player{ID: id, Nickname: nickname},
		PlayerID:     id,
		WotstatLastX: lastX,
		WotstatLevel: level,
	}
}

type queryLog struct {
	mu   sync.Mutex
	seen map[string]string
}

func (l *queryLog) record(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen == nil {
		l.seen = map[string]string{}
	}
	l.seen[key] = value
}

func (l *queryLog) get(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[key]
}

func TestGetTeamPoints_AggregatesPlayers(t *testing.T) {
	t.Parallel()

	var seen queryLog
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Errorf("missing user agent")
		}
		q := r.URL.Query()
		seen.record(q.Get("nickname"), q.Get("lastX")+"/"+q.Get("level"))

		switch q.Get("nickname") {
		case "alpha":
			_, _ = w.Write([]byte(`<html><body><div class="points">1,250</div><span class="rating">1,830</span></body></html>`))
		case "bravo":
			_, _ = w.Write([]byte(`<html><body><main>Session: 340 points over 20 battles</main></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	client := NewClient(ClientConfig{Concurrency: 2, Now: func() time.Time { return fixed }})

	tm := team.Team{
		ID:           7,
		Name:         "Steel Wall",
		WotstatLastX: 30,
		Players: []team.Member{
			member(1, "alpha", 0, 0),
			member(2, "bravo", 20, 8),
			member(3, "charlie", 0, 0),
		},
	}
	cfg := settings.Settings{WotstatBaseURL: srv.URL + "/session/demo", WotstatDefaultLevel: 9}

	report, err := client.GetTeamPoints(context.Background(), tm, cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(7), report.TeamID)
	assert.Equal(t, "Steel Wall", report.TeamName)
	assert.Equal(t, 3, report.TotalPlayers)
	assert.Equal(t, 2, report.SuccessCount)
	assert.Equal(t, 1590.0, report.TotalPoints)
	assert.Equal(t, 795.0, report.AvgPoints)
	assert.Equal(t, fixed, report.LastUpdated)

	require.Len(t, report.Players, 3)
	assert.Equal(t, "alpha", report.Players[0].Nickname)
	assert.Equal(t, 1250.0, report.Players[0].Points)
	assert.Equal(t, 1830.0, report.Players[0].Rating)
	assert.True(t, report.Players[0].Success)
	assert.Equal(t, 30, report.Players[0].LastX)
	assert.Equal(t, 9, report.Players[0].Level)

	assert.Equal(t, 340.0, report.Players[1].Points)
	assert.Equal(t, 20, report.Players[1].LastX)
	assert.Equal(t, 8, report.Players[1].Level)

	assert.False(t, report.Players[2].Success)
	assert.Equal(t, "HTTP 404", report.Players[2].Error)
	assert.True(t, strings.HasPrefix(report.Players[2].WotstatURL, srv.URL+"/session/demo?"))

	assert.Equal(t, "30/9", seen.get("alpha"))
	assert.Equal(t, "20/8", seen.get("bravo"))
}

func TestGetTeamPoints_DefaultsWhenNothingConfigured(t *testing.T) {
	t.Parallel()

	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.RawQuery)
		_, _ = w.Write([]byte(`<div class="score">42</div>`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{})
	report, err := client.GetTeamPoints(context.Background(), team.Team{ID: 1, Players: []team.Member{member(1, "Тигр", 0, 0)}}, settings.Settings{WotstatBaseURL: srv.URL})
	require.NoError(t, err)

	require.Len(t, report.Players, 1)
	assert.Equal(t, 50, report.Players[0].LastX)
	assert.Equal(t, 10, report.Players[0].Level)
	assert.Equal(t, 42.0, report.Players[0].Points)
	assert.Contains(t, gotQuery.Load().(string), "lastX=50")
	assert.Contains(t, gotQuery.Load().(string), "nickname=%D0%A2%D0%B8%D0%B3%D1%80")
}

func TestGetTeamPoints_EmptyTeam(t *testing.T) {
	client := NewClient(ClientConfig{})

	report, err := client.GetTeamPoints(context.Background(), team.Team{ID: 3, Name: "Empty"}, settings.Settings{})
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalPlayers)
	assert.Equal(t, 0.0, report.AvgPoints)
	assert.NotNil(t, report.Players)
}

func TestGetTeamPoints_CircuitOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	var transitions []resilience.CircuitState
	client := NewClient(ClientConfig{
		Concurrency: 1,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			OnStateChange: func(_, to resilience.CircuitState) {
				transitions = append(transitions, to)
			},
		},
	})
	tm := team.Team{ID: 1, Players: []team.Member{
		member(1, "a", 0, 0),
		member(2, "b", 0, 0),
		member(3, "c", 0, 0),
	}}

	report, err := client.GetTeamPoints(context.Background(), tm, settings.Settings{WotstatBaseURL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, report.SuccessCount)
	assert.Equal(t, "HTTP 502", report.Players[0].Error)
	assert.Equal(t, resilience.ErrCircuitOpen.Error(), report.Players[2].Error)
	assert.Equal(t, []resilience.CircuitState{resilience.CircuitStateOpen}, transitions)
}

func TestGetTeamPoints_CancelledContext(t *testing.T) {
	client := NewClient(ClientConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetTeamPoints(ctx, team.Team{ID: 1, Players: []team.Member{member(1, "a", 0, 0)}}, settings.Settings{WotstatBaseURL: "http://127.0.0.1:1"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		wantPoints float64
		wantRating float64
	}{
		{name: "points and rating", html: `<p class="points">2,000 pts</p><p class="rating">1500</p>`, wantPoints: 2000, wantRating: 1500},
		{name: "data attribute", html: `<p data-points="315"></p>`, wantPoints: 315},
		{name: "content fallback", html: `<div class="content">Total 77, avg 3</div>`, wantPoints: 77},
		{name: "nothing", html: `<p>no numbers</p>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pts, rating, err := ParsePage(strings.NewReader(tc.html))
			require.NoError(t, err)
			assert.Equal(t, tc.wantPoints, pts)
			assert.Equal(t, tc.wantRating, rating)
		})
	}
}

func TestPlayerURL(t *testing.T) {
	got := PlayerURL("https://ru.wotstat.info/session/demo", "a b", 25, 9)
	assert.Equal(t, "https://ru.wotstat.info/session/demo?lastX=25&level=9&nickname=a+b", got)
}
