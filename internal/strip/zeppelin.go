package strip

import (
	"github.com/roach88/nbstripout/internal/notebook"
)

// StripZeppelin clears the results of every paragraph in place. No other
// rule applies to Zeppelin notes.
func StripZeppelin(z *notebook.Zeppelin) *notebook.Zeppelin {
	for _, p := range z.Paragraphs() {
		if p.Has("results") {
			p.Set("results", notebook.NewObject())
		}
	}
	return z
}
