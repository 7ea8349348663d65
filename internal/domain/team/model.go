package team

import (
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/domain/player"
)

// Team is a tournament roster. Members come either embedded in the team
// record or as a list of player ids resolved against the players collection.
type Team struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	Seed         int      `json:"seed,omitempty"`
	Bucket       int      `json:"bucket,omitempty"`
	CaptainID    *int64   `json:"captainId,omitempty"`
	ContactInfo  string   `json:"contactInfo,omitempty"`
	WotstatLastX int      `json:"wotstat_lastX,omitempty"`
	WotstatLevel int      `json:"wotstat_level,omitempty"`
	PlayerIDs    []int64  `json:"playerIds,omitempty"`
	Players      []Member `json:"players"`
}

// Member is a player as seen from a team, with the per-team overrides.
type Member struct {
	player.Player
	PlayerID     int64  `json:"playerId,omitempty"`
	Role         string `json:"role,omitempty"`
	WotstatLastX int    `json:"wotstat_lastX,omitempty"`
	WotstatLevel int    `json:"wotstat_level,omitempty"`
}

// HasEmbeddedPlayers reports whether the record carries a players array. An
// empty embedded array still takes precedence over playerIds.
func HasEmbeddedPlayers(rec document.Record) bool {
	_, ok := rec["players"].([]any)
	if ok {
		return true
	}
	_, ok = rec["players"].([]document.Record)
	return ok
}

// FromRecord decodes a team record. Players stays nil unless the record embeds
// a players array.
func FromRecord(rec document.Record) Team {
	id, _ := rec.ID()
	t := Team{
		ID:           id,
		Name:         rec.String("name"),
		Seed:         rec.Int("seed"),
		Bucket:       rec.Int("bucket"),
		CaptainID:    rec.OptionalInt64("captainId"),
		ContactInfo:  rec.String("contactInfo"),
		WotstatLastX: rec.Int("wotstat_lastX"),
		WotstatLevel: rec.Int("wotstat_level"),
		PlayerIDs:    rec.Int64s("playerIds"),
	}
	if HasEmbeddedPlayers(rec) {
		members := rec.Objects("players")
		t.Players = make([]Member, 0, len(members))
		for _, m := range members {
			t.Players = append(t.Players, MemberFromRecord(m))
		}
	}
	return t
}

func MemberFromRecord(rec document.Record) Member {
	m := Member{
		Player:       player.FromRecord(rec),
		Role:         rec.String("role"),
		WotstatLastX: rec.Int("wotstat_lastX"),
		WotstatLevel: rec.Int("wotstat_level"),
	}
	if id, ok := rec.Int64("playerId"); ok {
		m.PlayerID = id
	} else {
		m.PlayerID = m.ID
	}
	if m.ID == 0 {
		m.ID = m.PlayerID
	}
	return m
}

// MemberFromPlayer wraps a resolved player id reference.
func MemberFromPlayer(p player.Player) Member {
	return Member{Player: p, PlayerID: p.ID}
}
