package player

import (
	"net/url"
	"testing"
)

func samplePlayers() []Player {
	return []Player{
		{ID: 1, Nickname: "Zed", ClanTag: "RED", Bucket: 2, Stats: Stats{Rating: 4100}},
		{ID: 2, Nickname: "alpha", ClanTag: "BLUE", Bucket: 1, Streams: []Stream{{Platform: "twitch", URL: "https://twitch.tv/alpha"}}, Stats: Stats{Rating: 5200}},
		{ID: 3, Nickname: "bob", Bucket: 2, Stats: Stats{Rating: 3900}},
		{ID: 4, Nickname: "Mike", ClanTag: "red-2", Bucket: 3, Stats: Stats{Rating: 5200}},
	}
}

func ids(players []Player) []int64 {
	out := make([]int64, 0, len(players))
	for _, p := range players {
		out = append(out, p.ID)
	}
	return out
}

func equalIDs(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestFilterApply(t *testing.T) {
	two := 2
	tests := []struct {
		name   string
		filter Filter
		want   []int64
	}{
		{name: "no filter keeps order", filter: Filter{}, want: []int64{1, 2, 3, 4}},
		{name: "search matches nickname or clan", filter: Filter{Search: "RED"}, want: []int64{1, 4}},
		{name: "search is case insensitive", filter: Filter{Search: "ALP"}, want: []int64{2}},
		{name: "clan tag substring", filter: Filter{ClanTag: "red"}, want: []int64{1, 4}},
		{name: "bucket equality", filter: Filter{Bucket: &two}, want: []int64{1, 3}},
		{name: "has stream", filter: Filter{HasStream: true}, want: []int64{2}},
		{name: "sort by rating descending is stable", filter: Filter{SortBy: SortRating}, want: []int64{2, 4, 1, 3}},
		{name: "sort by bucket", filter: Filter{SortBy: SortBucket}, want: []int64{2, 1, 3, 4}},
		{name: "sort by clan puts empty first", filter: Filter{SortBy: SortClan}, want: []int64{3, 2, 1, 4}},
		{name: "sort by nickname ignores case", filter: Filter{SortBy: SortNickname}, want: []int64{2, 3, 4, 1}},
		{name: "unknown sort keeps order", filter: Filter{SortBy: "age"}, want: []int64{1, 2, 3, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := samplePlayers()
			got := ids(tc.filter.Apply(input))
			if !equalIDs(got, tc.want) {
				t.Fatalf("unexpected ids: got=%v want=%v", got, tc.want)
			}
			if !equalIDs(ids(input), []int64{1, 2, 3, 4}) {
				t.Fatalf("input slice was reordered: %v", ids(input))
			}
		})
	}
}

func TestFilterFromQuery(t *testing.T) {
	f, err := FilterFromQuery(url.Values{
		"search":    {" ze "},
		"bucket":    {"3"},
		"hasStream": {"true"},
		"sortBy":    {"rating"},
	})
	if err != nil {
		t.Fatalf("parse filter: %v", err)
	}
	if f.Search != "ze" || f.Bucket == nil || *f.Bucket != 3 || !f.HasStream || f.SortBy != SortRating {
		t.Fatalf("unexpected filter: %+v", f)
	}

	if _, err := FilterFromQuery(url.Values{"bucket": {"two"}}); err == nil {
		t.Fatalf("expected error for non numeric bucket")
	}
}
