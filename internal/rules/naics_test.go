package rules

import "testing"

func TestMatchNAICS_PrefixBands(t *testing.T) {
	tests := []struct {
		name     string
		opp      string
		org      []string
		expected float64
	}{
		{"Exact six-digit match", "541512", []string{"541512"}, 1.0},
		{"Five-digit match", "541512", []string{"541519"}, 0.9},
		{"Five-digit match via sibling code", "541512", []string{"541511", "236220"}, 0.9},
		{"Four-digit match", "541512", []string{"541590"}, 0.75},
		{"Three-digit match", "541512", []string{"541990"}, 0.5},
		{"Two-digit match", "562910", []string{"561210"}, 0.25},
		{"Sector mismatch", "541512", []string{"236220"}, 0.0},
		{"Best candidate wins", "541512", []string{"236220", "541512"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchNAICS(tt.opp, tt.org); got != tt.expected {
				t.Errorf("MatchNAICS(%q, %v) = %v, want %v", tt.opp, tt.org, got, tt.expected)
			}
		})
	}
}

func TestMatchNAICS_NeutralOnMissingData(t *testing.T) {
	if got := MatchNAICS("", []string{"541512"}); got != NeutralNAICSScore {
		t.Errorf("empty opportunity code: got %v, want %v", got, NeutralNAICSScore)
	}
	if got := MatchNAICS("541512", nil); got != NeutralNAICSScore {
		t.Errorf("no org codes: got %v, want %v", got, NeutralNAICSScore)
	}
}

func TestMatchNAICS_OrderIndependent(t *testing.T) {
	forward := MatchNAICS("541512", []string{"236220", "541519", "541512"})
	reverse := MatchNAICS("541512", []string{"541512", "541519", "236220"})
	if forward != reverse {
		t.Errorf("candidate ordering changed result: %v vs %v", forward, reverse)
	}
	if forward != 1.0 {
		t.Errorf("expected early-exit perfect match, got %v", forward)
	}
}
