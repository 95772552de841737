package engine

import "ocpulse/pkg/contracts/domain"

// IDSet is a reference set of normalized requisition ids.
type IDSet map[string]struct{}

// BuildIDSet normalizes every raw id and collects the non-empty results.
// Cells that normalize to "" carry no identifier and never participate in
// matching.
func BuildIDSet(raw []string) IDSet {
	set := make(IDSet, len(raw))
	for _, v := range raw {
		if id := NormalizeID(v); id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Contains reports membership of a normalized id. The empty id is never a
// member.
func (s IDSet) Contains(id string) bool {
	if id == "" {
		return false
	}
	_, ok := s[id]
	return ok
}

// FilterCancelled removes requisitions whose normalized id appears in the
// cancellation set, returning the survivors and the removed count.
func FilterCancelled(reqs []domain.Requisition, cancelled IDSet) ([]domain.Requisition, int) {
	kept := make([]domain.Requisition, 0, len(reqs))
	removed := 0
	for _, r := range reqs {
		if cancelled.Contains(r.ID) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}
