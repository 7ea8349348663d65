package document

const (
	DefaultWotstatBaseURL = "https://ru.wotstat.info/session/chuck-norris-tournament"
	DefaultWotstatLastX   = 50
	DefaultWotstatLevel   = 10
)

// DefaultSettings is the settings object used when no document could be loaded.
func DefaultSettings() Record {
	return Record{
		"name":                 "World of Tanks Tournament",
		"description":          "Киберспортивный турнир по World of Tanks",
		"startDate":            "",
		"endDate":              "",
		"prizePool":            "Призовой фонд уточняется",
		"logoUrl":              "",
		"wotstat_baseUrl":      DefaultWotstatBaseURL,
		"wotstat_defaultLastX": int64(DefaultWotstatLastX),
		"wotstat_defaultLevel": int64(DefaultWotstatLevel),
		"techPool":             []any{},
	}
}

// Default returns the built-in document: empty collections and default settings.
func Default() Document {
	return Document{
		Players:   []Record{},
		Teams:     []Record{},
		Matches:   []Record{},
		Rules:     []Record{},
		RuleCards: []Record{},
		Settings:  DefaultSettings(),
	}
}
