package engine

import "strings"

// signal is one scoring rule's contribution: points earned plus the
// human-readable reason shown to the user. Rules return nil when the
// underlying data is absent or the rule simply does not apply.
type signal struct {
	points float64
	reason string
}

func sig(points float64, reason string) *signal {
	return &signal{points: points, reason: reason}
}

// scorecard accumulates signals for one candidate. The reason list is
// append-only and keeps insertion order, so fundamental reasons stay ahead
// of technical ones when both phases run.
type scorecard struct {
	score   float64
	reasons []string
}

// apply folds a signal into the card; nil signals are skipped
func (c *scorecard) apply(signals ...*signal) {
	for _, s := range signals {
		if s == nil {
			continue
		}
		c.score += s.points
		if s.reason != "" {
			c.reasons = append(c.reasons, s.reason)
		}
	}
}

// add records points with a reason directly
func (c *scorecard) add(points float64, reason string) {
	c.apply(sig(points, reason))
}

// reasonText joins the first n reasons for display
func (c *scorecard) reasonText(n int) string {
	if len(c.reasons) < n {
		n = len(c.reasons)
	}
	return strings.Join(c.reasons[:n], "; ")
}
