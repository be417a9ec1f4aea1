package channels

import (
	"encoding/json"
	"math"
)

// Finite returns v, or 0 when v is NaN or infinite. JSON has no encoding
// for non-finite numbers, so every JSON view of the bus goes through it.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finiteArray(arr [Size]float64) [Size]float64 {
	for i, v := range arr {
		arr[i] = Finite(v)
	}
	return arr
}

// snapshotJSON has Snapshot's fields and tags but no MarshalJSON method.
type snapshotJSON Snapshot

// MarshalJSON encodes non-finite numbers as 0. The bus keeps the raw values.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON(s)
	out.NumericIn = finiteArray(s.NumericIn)
	out.NumericOut = finiteArray(s.NumericOut)
	return json.Marshal(out)
}
