// Package indicator implements the per-series indicator engine. Every
// function here is pure: it reads an immutable input series, allocates a
// fresh result aligned 1:1 with that input, and marks the warm-up prefix
// where the indicator is not yet defined as None. A period longer than the
// series produces an all-None result rather than an error; rejecting bad
// periods is the config layer's job.
package indicator

import "github.com/moznion/go-optional"

// noneValues allocates an all-None value slice aligned with an input
// series of length n.
func noneValues(n int) []optional.Option[float64] {
	values := make([]optional.Option[float64], n)
	for i := range values {
		values[i] = optional.None[float64]()
	}

	return values
}
