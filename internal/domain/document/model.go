package document

import (
	"fmt"
	"strings"
)

// Collection names one mutable part of the tournament document. The values
// double as the JSON keys of the root object.
type Collection string

const (
	CollectionPlayers   Collection = "players"
	CollectionTeams     Collection = "teams"
	CollectionMatches   Collection = "matches"
	CollectionRules     Collection = "rules"
	CollectionRuleCards Collection = "ruleCards"
	CollectionSettings  Collection = "settings"
)

// RecordCollections lists the id-addressed collections in document order.
var RecordCollections = []Collection{
	CollectionPlayers,
	CollectionTeams,
	CollectionMatches,
	CollectionRules,
	CollectionRuleCards,
}

func (c Collection) IsSingleton() bool {
	return c == CollectionSettings
}

func ParseCollection(v string) (Collection, error) {
	candidate := Collection(strings.TrimSpace(v))
	if candidate == CollectionSettings {
		return candidate, nil
	}
	for _, c := range RecordCollections {
		if c == candidate {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", v)
}

// Document is the whole persisted unit: five record collections and the
// settings singleton. There is one version token for all of it.
type Document struct {
	Players   []Record `json:"players"`
	Teams     []Record `json:"teams"`
	Matches   []Record `json:"matches"`
	Rules     []Record `json:"rules"`
	RuleCards []Record `json:"ruleCards"`
	Settings  Record   `json:"settings"`
}

// Snapshot is a loaded document plus where it came from. Degraded is set when
// every source failed and the built-in default was substituted.
type Snapshot struct {
	Document Document
	Source   string
	Degraded bool
}

// Normalize replaces missing collections with empty ones so the document always
// encodes all five arrays and a settings object.
func (d *Document) Normalize() {
	for _, c := range RecordCollections {
		if d.records(c) == nil {
			d.setRecords(c, []Record{})
		}
	}
	if d.Settings == nil {
		d.Settings = DefaultSettings()
	}
}

// Records returns the live slice backing collection c.
func (d *Document) Records(c Collection) ([]Record, error) {
	if c.IsSingleton() {
		return nil, fmt.Errorf("collection %q is a singleton", c)
	}
	records := d.records(c)
	if records == nil && !isRecordCollection(c) {
		return nil, fmt.Errorf("unknown collection %q", c)
	}
	return records, nil
}

// Upsert shallow-merges patch over the record with the given id, or appends
// {id, ...patch} when no record has it. For settings the id is ignored and the
// patch merges into the singleton.
func (d *Document) Upsert(c Collection, id int64, patch Record) error {
	if c.IsSingleton() {
		merged := d.Settings.Clone()
		if merged == nil {
			merged = Record{}
		}
		for k, v := range patch {
			merged[k] = v
		}
		d.Settings = merged
		return nil
	}
	if !isRecordCollection(c) {
		return fmt.Errorf("unknown collection %q", c)
	}

	records := d.records(c)
	for i, rec := range records {
		recID, ok := rec.ID()
		if !ok || recID != id {
			continue
		}
		merged := rec.Clone()
		for k, v := range patch {
			merged[k] = v
		}
		records[i] = merged
		return nil
	}

	created := make(Record, len(patch)+1)
	created[KeyID] = id
	for k, v := range patch {
		created[k] = v
	}
	d.setRecords(c, append(records, created))
	return nil
}

// Remove filters every record with the given id out of collection c and
// reports how many were dropped. Removing an unknown id is not an error.
func (d *Document) Remove(c Collection, id int64) (int, error) {
	if c.IsSingleton() {
		return 0, fmt.Errorf("collection %q cannot be deleted from", c)
	}
	if !isRecordCollection(c) {
		return 0, fmt.Errorf("unknown collection %q", c)
	}

	records := d.records(c)
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if recID, ok := rec.ID(); ok && recID == id {
			continue
		}
		kept = append(kept, rec)
	}
	d.setRecords(c, kept)
	return len(records) - len(kept), nil
}

// IDs lists the ids present in collection c, in document order.
func (d *Document) IDs(c Collection) []int64 {
	records := d.records(c)
	out := make([]int64, 0, len(records))
	for _, rec := range records {
		if id, ok := rec.ID(); ok {
			out = append(out, id)
		}
	}
	return out
}

func (d *Document) records(c Collection) []Record {
	switch c {
	case CollectionPlayers:
		return d.Players
	case CollectionTeams:
		return d.Teams
	case CollectionMatches:
		return d.Matches
	case CollectionRules:
		return d.Rules
	case CollectionRuleCards:
		return d.RuleCards
	default:
		return nil
	}
}

func (d *Document) setRecords(c Collection, records []Record) {
	switch c {
	case CollectionPlayers:
		d.Players = records
	case CollectionTeams:
		d.Teams = records
	case CollectionMatches:
		d.Matches = records
	case CollectionRules:
		d.Rules = records
	case CollectionRuleCards:
		d.RuleCards = records
	}
}

func isRecordCollection(c Collection) bool {
	for _, candidate := range RecordCollections {
		if candidate == c {
			return true
		}
	}
	return false
}
