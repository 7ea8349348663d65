package match

import "github.com/riskibarqy/tournament-data/internal/domain/document"

type Round string

const (
	RoundQualification Round = "qualification"
	RoundQuarterfinal  Round = "quarterfinal"
	RoundSemifinal     Round = "semifinal"
	RoundFinal         Round = "final"
	RoundThirdPlace    Round = "third-place"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// TBA names a side whose team is not decided or cannot be found.
const TBA = "TBA"

// Match is one series between two teams. A nil team id means the side is
// still to be announced.
type Match struct {
	ID          int64  `json:"id"`
	Round       Round  `json:"round"`
	Stage       string `json:"stage"`
	TeamAID     *int64 `json:"teamAId"`
	TeamBID     *int64 `json:"teamBId"`
	TeamAName   string `json:"teamAName,omitempty"`
	TeamBName   string `json:"teamBName,omitempty"`
	ScoreA      int    `json:"scoreA"`
	ScoreB      int    `json:"scoreB"`
	BestOf      int    `json:"bestOf"`
	Status      Status `json:"status"`
	ScheduledAt string `json:"scheduledAt,omitempty"`
}

func FromRecord(rec document.Record) Match {
	id, _ := rec.ID()
	return Match{
		ID:          id,
		Round:       Round(rec.String("round")),
		Stage:       rec.String("stage"),
		TeamAID:     rec.OptionalInt64("teamAId"),
		TeamBID:     rec.OptionalInt64("teamBId"),
		ScoreA:      rec.Int("scoreA"),
		ScoreB:      rec.Int("scoreB"),
		BestOf:      rec.Int("bestOf"),
		Status:      Status(rec.String("status")),
		ScheduledAt: rec.String("scheduledAt"),
	}
}

func FromRecords(records []document.Record) []Match {
	out := make([]Match, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}
