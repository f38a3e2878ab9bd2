package schema

// NormalizeReport summarizes one batch normalization pass.
type NormalizeReport struct {
	TotalRows      int
	ResolvedRows   int
	UnresolvedRows int
}

// ResolutionRate returns the share of rows whose period label resolved,
// in 0..1. An empty dataset counts as fully resolved.
func (r NormalizeReport) ResolutionRate() float64 {
	if r.TotalRows == 0 {
		return 1.0
	}
	return float64(r.ResolvedRows) / float64(r.TotalRows)
}
