package match

import (
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Bracket groups matches by round and then by stage. Groups keep the order in
// which their first match appeared, and so does the JSON encoding.
type Bracket struct {
	Rounds []RoundGroup
}

type RoundGroup struct {
	Round  Round
	Stages []StageGroup
}

type StageGroup struct {
	Stage   string
	Matches []Match
}

// Add appends m to its round and stage group, creating either when needed.
func (b *Bracket) Add(m Match) {
	ri := -1
	for i := range b.Rounds {
		if b.Rounds[i].Round == m.Round {
			ri = i
			break
		}
	}
	if ri < 0 {
		b.Rounds = append(b.Rounds, RoundGroup{Round: m.Round})
		ri = len(b.Rounds) - 1
	}

	round := &b.Rounds[ri]
	for i := range round.Stages {
		if round.Stages[i].Stage == m.Stage {
			round.Stages[i].Matches = append(round.Stages[i].Matches, m)
			return
		}
	}
	round.Stages = append(round.Stages, StageGroup{Stage: m.Stage, Matches: []Match{m}})
}

// Stage returns the matches of one round and stage, or nil.
func (b Bracket) Stage(round Round, stage string) []Match {
	for _, r := range b.Rounds {
		if r.Round != round {
			continue
		}
		for _, s := range r.Stages {
			if s.Stage == stage {
				return s.Matches
			}
		}
	}
	return nil
}

// MarshalJSON encodes {"<round>": {"<stage>": [matches...]}} keeping group order.
func (b Bracket) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_ = buf.WriteByte('{')
	for i, r := range b.Rounds {
		if i > 0 {
			_ = buf.WriteByte(',')
		}
		_, _ = buf.WriteString(strconv.Quote(string(r.Round)))
		_, _ = buf.WriteString(":{")
		for j, s := range r.Stages {
			if j > 0 {
				_ = buf.WriteByte(',')
			}
			_, _ = buf.WriteString(strconv.Quote(s.Stage))
			_ = buf.WriteByte(':')
			raw, err := sonic.ConfigStd.Marshal(s.Matches)
			if err != nil {
				return nil, err
			}
			_, _ = buf.Write(raw)
		}
		_ = buf.WriteByte('}')
	}
	_ = buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.B)
	return out, nil
}
