package player

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone     SortKey = ""
	SortNickname SortKey = "nickname"
	SortClan     SortKey = "clan"
	SortBucket   SortKey = "bucket"
	SortRating   SortKey = "rating"
)

// Filter narrows and orders a player listing. Zero values disable each
// criterion.
type Filter struct {
	Search    string
	ClanTag   string
	Bucket    *int
	HasStream bool
	SortBy    SortKey
}

// FilterFromQuery reads search, clanTag, bucket, hasStream and sortBy from a
// query string. Unknown sort keys leave the document order untouched.
func FilterFromQuery(q url.Values) (Filter, error) {
	f := Filter{
		Search:    strings.TrimSpace(q.Get("search")),
		ClanTag:   strings.TrimSpace(q.Get("clanTag")),
		HasStream: q.Get("hasStream") == "true",
		SortBy:    SortKey(strings.TrimSpace(q.Get("sortBy"))),
	}
	if raw := strings.TrimSpace(q.Get("bucket")); raw != "" {
		bucket, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, fmt.Errorf("bucket must be an integer")
		}
		f.Bucket = &bucket
	}
	return f, nil
}

func (f Filter) Match(p Player) bool {
	if f.Bucket != nil && p.Bucket != *f.Bucket {
		return false
	}
	if f.ClanTag != "" && !containsFold(p.ClanTag, f.ClanTag) {
		return false
	}
	if f.Search != "" && !containsFold(p.Nickname, f.Search) && !containsFold(p.ClanTag, f.Search) {
		return false
	}
	if f.HasStream && !p.HasStream() {
		return false
	}
	return true
}

// Apply returns the matching players in the requested order. The input slice is
// not modified.
func (f Filter) Apply(players []Player) []Player {
	out := make([]Player, 0, len(players))
	for _, p := range players {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	Sort(out, f.SortBy)
	return out
}

// Sort orders players in place. Rating sorts descending, the other keys
// ascending; ties keep their relative order.
func Sort(players []Player, key SortKey) {
	// collate.Collator is not safe for concurrent use.
	textCollator := collate.New(language.Russian, collate.IgnoreCase)
	var less func(a, b Player) bool
	switch key {
	case SortNickname:
		less = func(a, b Player) bool { return textCollator.CompareString(a.Nickname, b.Nickname) < 0 }
	case SortClan:
		less = func(a, b Player) bool { return textCollator.CompareString(a.ClanTag, b.ClanTag) < 0 }
	case SortBucket:
		less = func(a, b Player) bool { return a.Bucket < b.Bucket }
	case SortRating:
		less = func(a, b Player) bool { return a.Stats.Rating > b.Stats.Rating }
	default:
		return
	}
	sort.SliceStable(players, func(i, j int) bool { return less(players[i], players[j]) })
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
