package points

import (
	"math"
	"time"
)

// PlayerPoints is the lookup result for one team member.
type PlayerPoints struct {
	PlayerID   int64   `json:"playerId"`
	Nickname   string  `json:"nickname"`
	ClanTag    string  `json:"clanTag,omitempty"`
	Bucket     int     `json:"bucket,omitempty"`
	LastX      int     `json:"lastX"`
	Level      int     `json:"level"`
	Points     float64 `json:"points"`
	Rating     float64 `json:"rating"`
	WotstatURL string  `json:"wotstatUrl"`
	Success    bool    `json:"success"`
	Error      string  `json:"error,omitempty"`
}

// Report aggregates the points of every member of one team.
type Report struct {
	TeamID       int64          `json:"teamId"`
	TeamName     string         `json:"teamName"`
	Players      []PlayerPoints `json:"players"`
	TotalPoints  float64        `json:"totalPoints"`
	AvgPoints    float64        `json:"avgPoints"`
	SuccessCount int            `json:"successCount"`
	TotalPlayers int            `json:"totalPlayers"`
	LastUpdated  time.Time      `json:"lastUpdated"`
}

// NewReport totals the successful entries. The average is taken over
// successful players only and rounded to two decimals.
func NewReport(teamID int64, teamName string, players []PlayerPoints, now time.Time) Report {
	if players == nil {
		players = []PlayerPoints{}
	}
	r := Report{
		TeamID:       teamID,
		TeamName:     teamName,
		Players:      players,
		TotalPlayers: len(players),
		LastUpdated:  now.UTC(),
	}
	for _, p := range players {
		if !p.Success {
			continue
		}
		r.SuccessCount++
		r.TotalPoints += p.Points
	}
	if r.SuccessCount > 0 {
		r.AvgPoints = math.Round(r.TotalPoints/float64(r.SuccessCount)*100) / 100
	}
	return r
}
