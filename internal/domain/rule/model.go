package rule

import (
	"sort"

	"github.com/riskibarqy/tournament-data/internal/domain/document"
)

// Rule is one section of the tournament regulations.
type Rule struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category,omitempty"`
	OrderIndex int    `json:"orderIndex"`
}

// Card is a short rule summary shown as a tile.
type Card struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	OrderIndex int    `json:"orderIndex"`
}

func FromRecord(rec document.Record) Rule {
	id, _ := rec.ID()
	return Rule{
		ID:         id,
		Title:      rec.String("title"),
		Content:    rec.String("content"),
		Category:   rec.String("category"),
		OrderIndex: rec.Int("orderIndex"),
	}
}

func CardFromRecord(rec document.Record) Card {
	id, _ := rec.ID()
	return Card{
		ID:         id,
		Title:      rec.String("title"),
		Content:    rec.String("content"),
		OrderIndex: rec.Int("orderIndex"),
	}
}

// Ordered decodes rules sorted by orderIndex; equal indexes keep document order.
func Ordered(records []document.Record) []Rule {
	out := make([]Rule, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}

func OrderedCards(records []document.Record) []Card {
	out := make([]Card, 0, len(records))
	for _, rec := range records {
		out = append(out, CardFromRecord(rec))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}
