// Package optimization provides shared data structures for sweep results.
package optimization

// Summary captures the maximising point of a single rendered plot.
type Summary struct {
	Plot       string  `json:"plot"`
	Kind       string  `json:"kind"`
	File       string  `json:"file"`
	X          float64 `json:"x"`
	Y          float64 `json:"y,omitempty"`
	Value      float64 `json:"value"`
	Found      bool    `json:"found"`
	Points     int     `json:"points"`
	Degenerate int     `json:"degenerate"`
}
