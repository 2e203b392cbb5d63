package domain

import "sort"

// Box is a packed group of items, the unit a rate is quoted against.
type Box struct {
	Items        []Item  `json:"items"`
	Length       float64 `json:"length"`
	Width        float64 `json:"width"`
	CurrentDepth float64 `json:"depth"`
	Weight       float64 `json:"weight"`
}

// Oversized reports whether the box exceeds MaxBoxDepth, which only happens
// when a single item is deeper than the cap on its own.
func (b Box) Oversized() bool {
	return b.CurrentDepth > MaxBoxDepth
}

func (b Box) fits(item Item) bool {
	return b.CurrentDepth+item.Depth <= MaxBoxDepth
}

func (b *Box) add(item Item) {
	b.Items = append(b.Items, item)
	b.CurrentDepth += item.Depth
	b.Length = max(b.Length, item.Length)
	b.Width = max(b.Width, item.Width)
	b.Weight += EstimateWeight(item)
}

func newBox(item Item) Box {
	return Box{
		Items:        []Item{item},
		Length:       item.Length,
		Width:        item.Width,
		CurrentDepth: item.Depth,
		Weight:       BoxTareWeight + EstimateWeight(item),
	}
}

// Pack assigns items to boxes first-fit decreasing by depth: items are
// stable-sorted deepest first and each goes into the first box, in creation
// order, that still has depth for it. Only depth is constrained; footprint
// grows to the largest item. Empty input yields no boxes.
func Pack(items []Item) []Box {
	if len(items) == 0 {
		return nil
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Depth > sorted[j].Depth
	})

	var boxes []Box
	for _, item := range sorted {
		placed := false
		for i := range boxes {
			if boxes[i].fits(item) {
				boxes[i].add(item)
				placed = true
				break
			}
		}
		if !placed {
			boxes = append(boxes, newBox(item))
		}
	}

	return boxes
}
