package usecase

import (
	"github.com/riskibarqy/tournament-data/internal/domain/document"
	"github.com/riskibarqy/tournament-data/internal/domain/match"
	"github.com/riskibarqy/tournament-data/internal/domain/player"
	"github.com/riskibarqy/tournament-data/internal/domain/team"
)

func findRecord(records []document.Record, id int64) (document.Record, bool) {
	for _, rec := range records {
		if recID, ok := rec.ID(); ok && recID == id {
			return rec, true
		}
	}
	return nil, false
}

// indexRecords maps ids to records; the first record wins on duplicate ids.
func indexRecords(records []document.Record) map[int64]document.Record {
	out := make(map[int64]document.Record, len(records))
	for _, rec := range records {
		id, ok := rec.ID()
		if !ok {
			continue
		}
		if _, exists := out[id]; !exists {
			out[id] = rec
		}
	}
	return out
}

func resolveTeams(doc document.Document) []team.Team {
	players := indexRecords(doc.Players)
	out := make([]team.Team, 0, len(doc.Teams))
	for _, rec := range doc.Teams {
		out = append(out, resolveTeam(rec, players))
	}
	return out
}

// resolveTeam joins a team with its members. An embedded players array is
// used as-is, even when empty; embedded members that reference a known player
// are layered over that player's record. Otherwise playerIds are looked up and
// unknown ids are dropped.
func resolveTeam(rec document.Record, players map[int64]document.Record) team.Team {
	t := team.FromRecord(rec)

	if team.HasEmbeddedPlayers(rec) {
		embedded := rec.Objects("players")
		t.Players = make([]team.Member, 0, len(embedded))
		for _, m := range embedded {
			merged := m
			if playerID, ok := m.Int64("playerId"); ok {
				if base, found := players[playerID]; found {
					merged = base.Clone()
					for k, v := range m {
						merged[k] = v
					}
				}
			}
			t.Players = append(t.Players, team.MemberFromRecord(merged))
		}
		return t
	}

	t.Players = make([]team.Member, 0, len(t.PlayerIDs))
	for _, id := range t.PlayerIDs {
		base, ok := players[id]
		if !ok {
			continue
		}
		t.Players = append(t.Players, team.MemberFromPlayer(player.FromRecord(base)))
	}
	return t
}

// attachTeamNames fills teamAName and teamBName, using TBA for a missing or
// unknown team id.
func attachTeamNames(matches []match.Match, teams []document.Record) []match.Match {
	names := make(map[int64]string, len(teams))
	for _, rec := range teams {
		id, ok := rec.ID()
		if !ok {
			continue
		}
		if _, exists := names[id]; !exists {
			names[id] = rec.String("name")
		}
	}

	lookup := func(id *int64) string {
		if id == nil {
			return match.TBA
		}
		if name := names[*id]; name != "" {
			return name
		}
		return match.TBA
	}

	for i := range matches {
		matches[i].TeamAName = lookup(matches[i].TeamAID)
		matches[i].TeamBName = lookup(matches[i].TeamBID)
	}
	return matches
}

func buildBracket(matches []match.Match) match.Bracket {
	var b match.Bracket
	for _, m := range matches {
		b.Add(m)
	}
	return b
}
