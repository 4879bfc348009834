// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

// Outcome classifies how a single geocoding request ended.
type Outcome int

const (
	// OutcomeFailed means the request failed in transport or while parsing.
	OutcomeFailed Outcome = iota
	// OutcomeMiss means the provider answered, but no usable address was returned.
	OutcomeMiss
	// OutcomeFound means at least one address was resolved over the network.
	OutcomeFound
	// OutcomeCacheHit means the address was served from the spatial cache.
	OutcomeCacheHit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFailed:
		return "failed"
	case OutcomeMiss:
		return "miss"
	case OutcomeFound:
		return "found"
	case OutcomeCacheHit:
		return "cache_hit"
	default:
		return "unknown"
	}
}

// Result carries the addresses of a request together with its Outcome. Err is only
// set for OutcomeFailed and OutcomeMiss.
type Result struct {
	Addresses []Address
	Outcome   Outcome
	Err       error
}

// Absent reports whether the result carries no address.
func (r Result) Absent() bool {
	return len(r.Addresses) == 0
}
