package id

// Generator proposes identifiers for new records. Records in the tournament
// document carry caller-assigned integer ids, so callers that create records
// ask a Generator for a free one before upserting.
type Generator interface {
	NextID(existing []int64) int64
}

// SequenceGenerator hands out max(existing)+1, starting at 1.
type SequenceGenerator struct{}

func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

func (g *SequenceGenerator) NextID(existing []int64) int64 {
	var highest int64
	for _, v := range existing {
		if v > highest {
			highest = v
		}
	}
	return highest + 1
}
