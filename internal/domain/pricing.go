package domain

// ComputeTotal sums item prices. Every order total in the system is produced
// here; callers never assign Order.TotalPrice directly.
func ComputeTotal(items []Item) int64 {
	var total int64
	for _, item := range items {
		total += item.Price
	}
	return total
}

// SetItems replaces the item set and recomputes the total.
func (o *Order) SetItems(items []Item) {
	o.Items = dedupeItems(items)
	o.Recalculate()
}

// Recalculate refreshes TotalPrice from the current item set.
func (o *Order) Recalculate() {
	o.TotalPrice = ComputeTotal(o.Items)
}

// DedupeIDs collapses repeated ids keeping first-seen order.
func DedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func dedupeItems(items []Item) []Item {
	seen := make(map[int64]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}
