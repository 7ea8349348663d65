package settings

import (
	"strings"

	"github.com/riskibarqy/tournament-data/internal/domain/document"
)

// Settings describes the tournament itself and the defaults for points lookups.
type Settings struct {
	Name                string `json:"name"`
	Description         string `json:"description"`
	StartDate           string `json:"startDate"`
	EndDate             string `json:"endDate"`
	PrizePool           string `json:"prizePool"`
	LogoURL             string `json:"logoUrl"`
	WotstatBaseURL      string `json:"wotstat_baseUrl"`
	WotstatDefaultLastX int    `json:"wotstat_defaultLastX"`
	WotstatDefaultLevel int    `json:"wotstat_defaultLevel"`
	TechPool            []Tech `json:"techPool"`
}

// Tech is a vehicle allowed in the tournament.
type Tech struct {
	Type       string `json:"type"`
	TankName   string `json:"tankName"`
	Tier       int    `json:"tier"`
	OrderIndex int    `json:"orderIndex"`
}

func FromRecord(rec document.Record) Settings {
	s := Settings{
		Name:                rec.String("name"),
		Description:         rec.String("description"),
		StartDate:           rec.String("startDate"),
		EndDate:             rec.String("endDate"),
		PrizePool:           rec.String("prizePool"),
		LogoURL:             rec.String("logoUrl"),
		WotstatBaseURL:      rec.String("wotstat_baseUrl"),
		WotstatDefaultLastX: rec.Int("wotstat_defaultLastX"),
		WotstatDefaultLevel: rec.Int("wotstat_defaultLevel"),
		TechPool:            []Tech{},
	}
	for _, t := range rec.Objects("techPool") {
		s.TechPool = append(s.TechPool, Tech{
			Type:       t.String("type"),
			TankName:   t.String("tankName"),
			Tier:       t.Int("tier"),
			OrderIndex: t.Int("orderIndex"),
		})
	}
	return s
}

// BaseURL is the points site address, falling back to the built-in one.
func (s Settings) BaseURL() string {
	if v := strings.TrimSpace(s.WotstatBaseURL); v != "" {
		return v
	}
	return document.DefaultWotstatBaseURL
}
