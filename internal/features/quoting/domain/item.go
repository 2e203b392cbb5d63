package domain

import "math"

const (
	// MaxBoxDepth is the depth cap of a shippable box, in inches.
	MaxBoxDepth = 4.0
	// BoxTareWeight is the empty box weight, in pounds.
	BoxTareWeight = 0.5

	itemBaseWeight    = 0.3
	itemWeightPerCuIn = 0.002
)

// Item is one shippable unit. Dimensions are in inches.
type Item struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
}

// Volume returns the item volume in cubic inches.
func (i Item) Volume() float64 {
	return i.Length * i.Width * i.Depth
}

// EstimateWeight returns the estimated item weight in pounds: a fixed base
// plus a volumetric density term, rounded to 2 decimals.
func EstimateWeight(i Item) float64 {
	return Round2(itemBaseWeight + i.Volume()*itemWeightPerCuIn)
}

// Round2 rounds x to 2 decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
