package sweep

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Dominance classifies a configuration by its set/way split.
type Dominance int

const (
	Equal         Dominance = iota // nsets == assoc
	SetsDominant                   // nsets > assoc
	AssocDominant                  // assoc > nsets
)

func (d Dominance) String() string {
	switch d {
	case SetsDominant:
		return "sets_dominant"
	case AssocDominant:
		return "assoc_dominant"
	default:
		return "equal"
	}
}

// DominanceOf classifies a key.
func DominanceOf(k ConfigKey) Dominance {
	switch {
	case k.NSets > k.Assoc:
		return SetsDominant
	case k.Assoc > k.NSets:
		return AssocDominant
	default:
		return Equal
	}
}

// Preference is the verdict for one size index.
type Preference string

const (
	PreferSets    Preference = "sets"
	PreferAssoc   Preference = "assoc"
	PreferNeither Preference = "tie"
	Undetermined  Preference = "undetermined" // one side has no data
)

// SizeBucket holds avg_total_miss values of every aggregated config sharing
// one size index, split by dominance class.
type SizeBucket struct {
	SizeIndex     int       `json:"size_index"`
	SetsDominant  []float64 `json:"sets_dominant"`
	AssocDominant []float64 `json:"assoc_dominant"`
	Equal         []float64 `json:"equal"`
}

// SetsDominantMean returns the mean of the sets-dominant class, or nil when empty.
func (b SizeBucket) SetsDominantMean() *float64 { return meanOrNil(b.SetsDominant) }

// AssocDominantMean returns the mean of the assoc-dominant class, or nil when empty.
func (b SizeBucket) AssocDominantMean() *float64 { return meanOrNil(b.AssocDominant) }

// EqualMean returns the mean of the equal class, or nil when empty.
func (b SizeBucket) EqualMean() *float64 { return meanOrNil(b.Equal) }

// Comparable reports whether at least one comparative class is populated.
func (b SizeBucket) Comparable() bool {
	return len(b.SetsDominant) > 0 || len(b.AssocDominant) > 0
}

// TradeoffResult compares sets-dominant and assoc-dominant configurations at
// equal capacity. The series slices are parallel and indexed by SizeIndices,
// which ascend and skip buckets with no comparative data.
type TradeoffResult struct {
	Buckets       []SizeBucket `json:"buckets"` // every size index, ascending
	SizeIndices   []int        `json:"size_indices"`
	SetsDominant  []*float64   `json:"sets_dominant"`  // nil entry = no sets-dominant config
	AssocDominant []*float64   `json:"assoc_dominant"` // nil entry = no assoc-dominant config
	Preferred     []Preference `json:"preferred"`
}

// ClassifyTradeoff buckets configs by nsets*assoc and averages each
// dominance class within a bucket.
func ClassifyTradeoff(configs []AggregatedConfig) TradeoffResult {
	byIndex := make(map[int]*SizeBucket)
	for _, c := range configs {
		idx := c.Key().SizeIndex()
		b, ok := byIndex[idx]
		if !ok {
			b = &SizeBucket{SizeIndex: idx}
			byIndex[idx] = b
		}
		switch DominanceOf(c.Key()) {
		case SetsDominant:
			b.SetsDominant = append(b.SetsDominant, c.AvgTotalMiss)
		case AssocDominant:
			b.AssocDominant = append(b.AssocDominant, c.AvgTotalMiss)
		default:
			b.Equal = append(b.Equal, c.AvgTotalMiss)
		}
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	var res TradeoffResult
	for _, idx := range indices {
		b := *byIndex[idx]
		res.Buckets = append(res.Buckets, b)
		if !b.Comparable() {
			continue
		}
		sets, assoc := b.SetsDominantMean(), b.AssocDominantMean()
		res.SizeIndices = append(res.SizeIndices, idx)
		res.SetsDominant = append(res.SetsDominant, sets)
		res.AssocDominant = append(res.AssocDominant, assoc)
		res.Preferred = append(res.Preferred, prefer(sets, assoc))
	}
	return res
}

func prefer(sets, assoc *float64) Preference {
	switch {
	case sets == nil || assoc == nil:
		return Undetermined
	case *sets < *assoc:
		return PreferSets
	case *assoc < *sets:
		return PreferAssoc
	default:
		return PreferNeither
	}
}

func meanOrNil(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := stat.Mean(xs, nil)
	return &m
}
