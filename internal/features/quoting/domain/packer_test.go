package domain

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPack_MixedDepths verifies the deepest item opens the first box and shallower ones fill it.
func TestPack_MixedDepths(t *testing.T) {
	items := []Item{
		{Length: 16, Width: 20, Depth: 1},
		{Length: 16, Width: 20, Depth: 1},
		{Length: 16, Width: 20, Depth: 3},
	}

	boxes := Pack(items)

	require.Len(t, boxes, 2)
	assert.Len(t, boxes[0].Items, 2)
	assert.Equal(t, 4.0, boxes[0].CurrentDepth)
	assert.Equal(t, 3.0, boxes[0].Items[0].Depth)
	assert.Len(t, boxes[1].Items, 1)
	assert.Equal(t, 1.0, boxes[1].CurrentDepth)

	assert.Equal(t, 16.0, boxes[0].Length)
	assert.Equal(t, 20.0, boxes[0].Width)

	// 0.5 tare + round2(0.3+960*0.002)=2.22 + round2(0.3+320*0.002)=0.94
	assert.InDelta(t, 3.66, boxes[0].Weight, 1e-9)
	assert.InDelta(t, 1.44, boxes[1].Weight, 1e-9)
}

// TestPack_WeightIsTarePlusItemEstimates verifies box weight is the plain sum of tare and per-item estimates.
func TestPack_WeightIsTarePlusItemEstimates(t *testing.T) {
	items := []Item{
		{Length: 3, Width: 7, Depth: 1},
		{Length: 5, Width: 5, Depth: 1},
		{Length: 9, Width: 2, Depth: 1},
	}

	boxes := Pack(items)

	require.Len(t, boxes, 1)
	want := BoxTareWeight
	for _, item := range items {
		want += EstimateWeight(item)
	}
	assert.Equal(t, want, boxes[0].Weight)
}

// TestPack_Empty verifies that no items yields no boxes.
func TestPack_Empty(t *testing.T) {
	assert.Empty(t, Pack(nil))
	assert.Empty(t, Pack([]Item{}))
}

// TestPack_FootprintGrowsToLargestItem verifies length and width track the maximum.
func TestPack_FootprintGrowsToLargestItem(t *testing.T) {
	boxes := Pack([]Item{
		{Length: 10, Width: 30, Depth: 1},
		{Length: 24, Width: 12, Depth: 1},
	})

	require.Len(t, boxes, 1)
	assert.Equal(t, 24.0, boxes[0].Length)
	assert.Equal(t, 30.0, boxes[0].Width)
	assert.Equal(t, 2.0, boxes[0].CurrentDepth)
}

// TestPack_StableForEqualDepths verifies equal-depth items keep their input order.
func TestPack_StableForEqualDepths(t *testing.T) {
	items := []Item{
		{Length: 1, Width: 1, Depth: 2},
		{Length: 2, Width: 2, Depth: 2},
		{Length: 3, Width: 3, Depth: 2},
	}

	boxes := Pack(items)

	require.Len(t, boxes, 2)
	assert.Equal(t, []Item{items[0], items[1]}, boxes[0].Items)
	assert.Equal(t, []Item{items[2]}, boxes[1].Items)
}

// TestPack_FirstFitScansEarlierBoxes verifies a later item can drop back into an earlier box.
func TestPack_FirstFitScansEarlierBoxes(t *testing.T) {
	boxes := Pack([]Item{
		{Length: 5, Width: 5, Depth: 3},
		{Length: 5, Width: 5, Depth: 3},
		{Length: 5, Width: 5, Depth: 1},
	})

	require.Len(t, boxes, 2)
	assert.Equal(t, 4.0, boxes[0].CurrentDepth)
	assert.Equal(t, 3.0, boxes[1].CurrentDepth)
}

// TestPack_OversizedItem verifies a single item deeper than the cap still gets its own box.
func TestPack_OversizedItem(t *testing.T) {
	boxes := Pack([]Item{
		{Length: 10, Width: 10, Depth: 6},
		{Length: 10, Width: 10, Depth: 1},
	})

	require.Len(t, boxes, 2)
	assert.True(t, boxes[0].Oversized())
	assert.Equal(t, 6.0, boxes[0].CurrentDepth)
	assert.Len(t, boxes[0].Items, 1)
	assert.False(t, boxes[1].Oversized())
}

// TestPack_Properties checks the depth cap, determinism and item conservation over random inputs.
func TestPack_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 200; run++ {
		n := rng.Intn(25)
		items := make([]Item, n)
		for i := range items {
			items[i] = Item{
				Length: float64(1 + rng.Intn(30)),
				Width:  float64(1 + rng.Intn(30)),
				Depth:  float64(rng.Intn(9)) * 0.5,
			}
		}

		boxes := Pack(items)

		for _, b := range boxes {
			if len(b.Items) > 1 {
				assert.LessOrEqual(t, b.CurrentDepth, MaxBoxDepth, "run %d", run)
			}
		}

		assert.Equal(t, boxes, Pack(items), "run %d: packing must be deterministic", run)

		var flattened []Item
		for _, b := range boxes {
			flattened = append(flattened, b.Items...)
		}
		assert.ElementsMatch(t, items, flattened, "run %d: items must be conserved", run)
	}
}

// TestPack_DoesNotMutateInput verifies the caller's slice order is untouched.
func TestPack_DoesNotMutateInput(t *testing.T) {
	items := []Item{{Length: 1, Width: 1, Depth: 1}, {Length: 1, Width: 1, Depth: 3}}
	original := append([]Item(nil), items...)

	Pack(items)

	assert.Equal(t, original, items)
}

func TestEstimateWeight(t *testing.T) {
	tests := []struct {
		item Item
		want float64
	}{
		{Item{Length: 16, Width: 20, Depth: 1}, 0.94},
		{Item{Length: 16, Width: 20, Depth: 3}, 2.22},
		{Item{Length: 0, Width: 0, Depth: 0}, 0.3},
		{Item{Length: 12, Width: 12, Depth: 4}, 1.45},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%vx%vx%v", tt.item.Length, tt.item.Width, tt.item.Depth), func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateWeight(tt.item), 1e-9)
		})
	}
}

// TestEstimateWeight_MonotonicInVolume verifies larger volumes never weigh less.
func TestEstimateWeight_MonotonicInVolume(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := make([]Item, 300)
	for i := range items {
		items[i] = Item{Length: rng.Float64() * 30, Width: rng.Float64() * 30, Depth: rng.Float64() * 4}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Volume() < items[j].Volume() })

	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, EstimateWeight(items[i]), EstimateWeight(items[i-1]))
	}
}
