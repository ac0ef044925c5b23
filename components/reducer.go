package components

import "sort"

// GroupingReducer turns the complete value multiset of a key into its final
// posting list
type GroupingReducer struct{}

// NewGroupingReducer returns a GroupingReducer
func NewGroupingReducer() *GroupingReducer {
	return &GroupingReducer{}
}

// Reduce returns a lexicographically sorted copy of values. Duplicates are
// kept.
func (r *GroupingReducer) Reduce(key PivotKey, values []string) []string {
	postings := make([]string, len(values))
	copy(postings, values)
	sort.Strings(postings)
	return postings
}

// ReduceGroup reduces a KeyGroup into a PostingsList for the same partition
func (r *GroupingReducer) ReduceGroup(g *KeyGroup) *PostingsList {
	return &PostingsList{
		Partition: g.Partition,
		Key:       g.Key,
		Values:    r.Reduce(g.Key, g.Values),
	}
}
