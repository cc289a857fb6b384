package rules

// State adjacency for geographic fit. The map is not exhaustive: it covers
// the corridors that matter for federal work. Adjacency is symmetric by
// specification, so callers must check both directions; AreStatesAdjacent
// does that.
var stateAdjacency = map[string][]string{
	"VA": {"DC", "MD", "WV", "NC", "TN", "KY"},
	"MD": {"DC", "VA", "WV", "PA", "DE"},
	"DC": {"VA", "MD"},
	"CA": {"OR", "NV", "AZ"},
	"TX": {"NM", "OK", "AR", "LA"},
	"FL": {"GA", "AL"},
	"NY": {"NJ", "CT", "PA", "VT", "MA"},
	"IL": {"WI", "IN", "MO", "IA", "KY"},
}

// dcArea is the federal-hub triangle; organizations here get a geographic
// floor even against distant places of performance.
var dcArea = map[string]bool{"DC": true, "VA": true, "MD": true}

// AreStatesAdjacent reports whether two uppercased state codes border each
// other per the adjacency table, trying both directions.
func AreStatesAdjacent(a, b string) bool {
	for _, adj := range stateAdjacency[a] {
		if adj == b {
			return true
		}
	}
	for _, adj := range stateAdjacency[b] {
		if adj == a {
			return true
		}
	}
	return false
}

// InDCArea reports whether the state is part of the DC/VA/MD federal hub.
func InDCArea(state string) bool {
	return dcArea[state]
}
