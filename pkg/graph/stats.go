package graph

// Stats summarizes a set of elements.
type Stats struct {
	Nodes     int     `json:"nodes"`
	Edges     int     `json:"edges"`
	Expanded  int     `json:"expanded"`
	Collapsed int     `json:"collapsed"`
	Width     float64 `json:"width"`  // largest X
	Height    float64 `json:"height"` // largest Y
}

// ComputeStats counts records and measures the extent of node positions.
func ComputeStats(e Elements) Stats {
	s := Stats{Nodes: len(e.Nodes), Edges: len(e.Edges)}
	for _, n := range e.Nodes {
		if n.Data.Expanded {
			s.Expanded++
		} else {
			s.Collapsed++
		}
		s.Width = max(s.Width, n.Position.X)
		s.Height = max(s.Height, n.Position.Y)
	}
	return s
}
