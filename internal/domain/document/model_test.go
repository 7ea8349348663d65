package document

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FillsMissingCollections(t *testing.T) {
	doc, err := Parse([]byte(`{"players":[{"id":1,"nickname":"alpha"}]}`))
	require.NoError(t, err)

	assert.Len(t, doc.Players, 1)
	assert.NotNil(t, doc.Teams)
	assert.NotNil(t, doc.Matches)
	assert.NotNil(t, doc.Rules)
	assert.NotNil(t, doc.RuleCards)
	assert.Equal(t, "World of Tanks Tournament", doc.Settings.String("name"))

	id, ok := doc.Players[0].ID()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)
}

func TestParse_RejectsNonObjectRoot(t *testing.T) {
	for _, raw := range []string{"", "[]", "null", "42", `{"players":`} {
		_, err := Parse([]byte(raw))
		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %q, got %v", raw, err)
		}
	}
}

func TestUpsert_MergesExistingRecord(t *testing.T) {
	doc := Default()
	doc.Players = []Record{{"id": int64(1), "nickname": "alpha", "clanTag": "AAA"}}

	require.NoError(t, doc.Upsert(CollectionPlayers, 1, Record{"nickname": "beta"}))

	require.Len(t, doc.Players, 1)
	assert.Equal(t, "beta", doc.Players[0].String("nickname"))
	assert.Equal(t, "AAA", doc.Players[0].String("clanTag"))
}

func TestUpsert_AppendsMissingRecordWithID(t *testing.T) {
	doc := Default()
	doc.Teams = []Record{{"id": int64(1), "name": "One"}}

	require.NoError(t, doc.Upsert(CollectionTeams, 7, Record{"name": "Seven"}))

	require.Len(t, doc.Teams, 2)
	id, ok := doc.Teams[1].ID()
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "Seven", doc.Teams[1].String("name"))
}

func TestUpsert_DoesNotAliasPreviousRecord(t *testing.T) {
	original := Record{"id": int64(1), "nickname": "alpha"}
	doc := Default()
	doc.Players = []Record{original}

	require.NoError(t, doc.Upsert(CollectionPlayers, 1, Record{"nickname": "beta"}))
	assert.Equal(t, "alpha", original.String("nickname"))
}

func TestUpsert_SettingsIgnoresID(t *testing.T) {
	doc := Default()

	require.NoError(t, doc.Upsert(CollectionSettings, 99, Record{"name": "Cup"}))

	assert.Equal(t, "Cup", doc.Settings.String("name"))
	assert.Equal(t, "Призовой фонд уточняется", doc.Settings.String("prizePool"))
	assert.False(t, doc.Settings.Has("id"))
}

func TestRemove(t *testing.T) {
	doc := Default()
	doc.Rules = []Record{{"id": int64(1)}, {"id": int64(2)}, {"id": int64(1)}}

	removed, err := doc.Remove(CollectionRules, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, []int64{2}, doc.IDs(CollectionRules))

	removed, err = doc.Remove(CollectionRules, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	assert.Equal(t, []int64{2}, doc.IDs(CollectionRules))

	_, err = doc.Remove(CollectionSettings, 1)
	assert.Error(t, err)
}

func TestEncodeIndent_UsesTwoSpaces(t *testing.T) {
	raw, err := EncodeIndent(Default())
	require.NoError(t, err)

	text := string(raw)
	assert.True(t, strings.HasPrefix(text, "{\n  \""), text)
	for _, key := range []string{`"players": []`, `"teams": []`, `"matches": []`, `"rules": []`, `"ruleCards": []`, `"settings": {`} {
		assert.Contains(t, text, key)
	}
}

func TestEncodeParse_RoundTripKeepsUnknownFields(t *testing.T) {
	doc := Default()
	doc.Players = []Record{{"id": int64(3), "nickname": "gamma", "favouriteTank": "IS-7"}}

	raw, err := Encode(doc)
	require.NoError(t, err)
	parsed, err := Parse(raw)
	require.NoError(t, err)

	require.Len(t, parsed.Players, 1)
	assert.Equal(t, "IS-7", parsed.Players[0].String("favouriteTank"))
	id, _ := parsed.Players[0].ID()
	assert.Equal(t, int64(3), id)
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("ruleCards")
	require.NoError(t, err)
	assert.Equal(t, CollectionRuleCards, c)

	c, err = ParseCollection("settings")
	require.NoError(t, err)
	assert.True(t, c.IsSingleton())

	_, err = ParseCollection("fixtures")
	assert.Error(t, err)
}

func TestRecordAccessorsTolerateLooseTypes(t *testing.T) {
	rec := Record{
		"id":        "12",
		"bucket":    "",
		"rating":    "4.5",
		"teamAId":   nil,
		"playerIds": []any{int64(1), float64(2), "3", "x"},
	}

	id, ok := rec.ID()
	require.True(t, ok)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, 0, rec.Int("bucket"))
	assert.InDelta(t, 4.5, rec.Float("rating"), 0.0001)
	assert.Nil(t, rec.OptionalInt64("teamAId"))
	assert.Equal(t, []int64{1, 2, 3}, rec.Int64s("playerIds"))
}

func TestDecodeRecord(t *testing.T) {
	rec, err := DecodeRecord(struct {
		Name string `json:"name"`
		Seed int    `json:"seed"`
	}{Name: "Alpha", Seed: 2})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", rec.String("name"))
	assert.Equal(t, 2, rec.Int("seed"))

	_, err = DecodeRecord([]int{1, 2})
	assert.ErrorIs(t, err, ErrMalformed)
}
