package core

import (
	"regexp"
	"strings"
)

// Target is a resolved reference to a ruleid inside a content doc.
type Target struct {
	CSetID string `json:"cset_id" yaml:"cset_id"`
	CDocID string `json:"cdoc_id" yaml:"cdoc_id"`
	Ruleid string `json:"ruleid" yaml:"ruleid"`
}

// TargetIndex maps lowercased ruleids to every target that defines them.
// It is read-only once built.
type TargetIndex struct {
	buckets map[string][]Target
	keys    []string
}

// ruleidSuffixRE matches the start of a suffix range such as the "-.4" in "A12.3-.4".
var ruleidSuffixRE = regexp.MustCompile(`-[0-9.]`)

// BuildTargetIndex indexes the targets of the given content docs. Buckets keep
// the order in which the docs (and their targets) were supplied, so the first
// entry of a bucket is the default resolution for an ambiguous ruleid.
func BuildTargetIndex(docs []ContentDoc) *TargetIndex {
	idx := &TargetIndex{buckets: make(map[string][]Target)}

	for i := range docs {
		doc := &docs[i]

		for _, t := range doc.Targets {
			key := strings.ToLower(t.Ruleid)

			if _, ok := idx.buckets[key]; !ok {
				idx.keys = append(idx.keys, key)
			}

			idx.buckets[key] = append(idx.buckets[key], Target{
				CSetID: doc.ParentCSetID,
				CDocID: doc.CDocID,
				Ruleid: t.Ruleid,
			})
		}
	}

	return idx
}

// StripRuleidSuffix truncates a ruleid at a suffix range, e.g. "A12.3-.4" becomes "A12.3".
func StripRuleidSuffix(ruleid string) string {
	if loc := ruleidSuffixRE.FindStringIndex(ruleid); loc != nil {
		return ruleid[:loc[0]]
	}

	return ruleid
}

// Resolve looks up a ruleid, ignoring case and any suffix range. When csetID is
// not empty, only targets belonging to that content set are returned.
// It returns nil when nothing matches.
func (idx *TargetIndex) Resolve(rawID, csetID string) []Target {
	if idx == nil {
		return nil
	}

	bucket := idx.buckets[strings.ToLower(StripRuleidSuffix(rawID))]
	if len(bucket) == 0 {
		return nil
	}

	if csetID == "" {
		out := make([]Target, len(bucket))
		copy(out, bucket)

		return out
	}

	var out []Target

	for _, t := range bucket {
		if t.CSetID == csetID {
			out = append(out, t)
		}
	}

	return out
}

// First resolves a ruleid and returns the first match.
func (idx *TargetIndex) First(rawID, csetID string) (Target, bool) {
	targets := idx.Resolve(rawID, csetID)
	if len(targets) == 0 {
		return Target{}, false
	}

	return targets[0], true
}

// PrimaryTarget returns the target for the first ruleid of an index search result.
func (idx *TargetIndex) PrimaryTarget(sr *IndexSR) (Target, bool) {
	if sr == nil || len(sr.Ruleids) == 0 {
		return Target{}, false
	}

	return idx.First(sr.Ruleids[0], sr.CSetID)
}

// Keys returns the index keys in the order they were first seen.
func (idx *TargetIndex) Keys() []string {
	if idx == nil {
		return nil
	}

	out := make([]string, len(idx.keys))
	copy(out, idx.keys)

	return out
}

// Len returns the number of distinct ruleids in the index.
func (idx *TargetIndex) Len() int {
	if idx == nil {
		return 0
	}

	return len(idx.buckets)
}
