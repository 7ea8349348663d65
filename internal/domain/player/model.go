package player

import "github.com/riskibarqy/tournament-data/internal/domain/document"

// Player is a registered tournament participant.
type Player struct {
	ID               int64    `json:"id"`
	Nickname         string   `json:"nickname"`
	ClanTag          string   `json:"clanTag,omitempty"`
	Bucket           int      `json:"bucket,omitempty"`
	PortalProfileURL string   `json:"portalProfileUrl,omitempty"`
	WotAccountID     string   `json:"wotAccountId,omitempty"`
	Streams          []Stream `json:"streams"`
	Stats            Stats    `json:"stats"`
}

type Stream struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Stats are the player's portal statistics as entered by an administrator.
type Stats struct {
	Battles   int64   `json:"battles"`
	Wins      int64   `json:"wins"`
	WR        float64 `json:"wr"`
	AvgDamage float64 `json:"avgDamage"`
	AvgExp    float64 `json:"avgExp"`
	Hits      float64 `json:"hits"`
	Rating    float64 `json:"rating"`
}

func (p Player) HasStream() bool {
	return len(p.Streams) > 0
}

// FromRecord decodes a player record. Fields of the wrong shape read as zero
// values instead of failing, since records are edited by hand.
func FromRecord(rec document.Record) Player {
	id, _ := rec.ID()
	p := Player{
		ID:               id,
		Nickname:         rec.String("nickname"),
		ClanTag:          rec.String("clanTag"),
		Bucket:           rec.Int("bucket"),
		PortalProfileURL: rec.String("portalProfileUrl"),
		WotAccountID:     rec.String("wotAccountId"),
		Streams:          []Stream{},
		Stats:            StatsFromRecord(rec.Object("stats")),
	}
	for _, s := range rec.Objects("streams") {
		p.Streams = append(p.Streams, Stream{
			Platform: s.String("platform"),
			URL:      s.String("url"),
		})
	}
	return p
}

func StatsFromRecord(rec document.Record) Stats {
	if rec == nil {
		return Stats{}
	}
	return Stats{
		Battles:   int64(rec.Float("battles")),
		Wins:      int64(rec.Float("wins")),
		WR:        rec.Float("wr"),
		AvgDamage: rec.Float("avgDamage"),
		AvgExp:    rec.Float("avgExp"),
		Hits:      rec.Float("hits"),
		Rating:    rec.Float("rating"),
	}
}

func FromRecords(records []document.Record) []Player {
	out := make([]Player, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}
