package triage

import (
	"sort"
	"strconv"
)

// dedupe merges work items by "{owner}/{repo}#{number}", keeping the one
// with the later notification.updatedAt; ties prefer unread over read.
// Output is sorted by (owner/repo, number).
func dedupe(items []WorkItem) []WorkItem {
	byKey := make(map[string]WorkItem, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		key := itemKey(item)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = item
			order = append(order, key)
			continue
		}
		if shouldReplace(existing, item) {
			byKey[key] = item
		}
	}

	merged := make([]WorkItem, 0, len(order))
	for _, key := range order {
		merged = append(merged, byKey[key])
	}

	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Repo.String() != b.Repo.String() {
			return a.Repo.String() < b.Repo.String()
		}
		return a.PRNumber < b.PRNumber
	})

	return merged
}

func itemKey(item WorkItem) string {
	return item.Repo.String() + "#" + strconv.Itoa(item.PRNumber)
}

// shouldReplace reports whether candidate should win over existing under
// the later-updatedAt / unread-tiebreak rule. Items without a
// notification never replace an item that has one more recent data.
func shouldReplace(existing, candidate WorkItem) bool {
	if candidate.Notification == nil {
		return false
	}
	if existing.Notification == nil {
		return true
	}
	ce, cc := existing.Notification, candidate.Notification
	if !cc.UpdatedAt.Equal(ce.UpdatedAt) {
		return cc.UpdatedAt.After(ce.UpdatedAt)
	}
	return cc.Unread && !ce.Unread
}
