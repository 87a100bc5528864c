package upload

// Window is the half-open [Start, End) range of local wall-clock hours the
// uploader may run in. Start greater than End means the window crosses
// midnight, e.g. {20, 4} covers 20:00 through 03:59.
type Window struct {
	Start int
	End   int
}

func (w Window) Contains(hour int) bool {
	switch {
	case w.Start == w.End:
		return true
	case w.Start < w.End:
		return hour >= w.Start && hour < w.End
	default:
		return hour >= w.Start || hour < w.End
	}
}
