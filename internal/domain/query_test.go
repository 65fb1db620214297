package domain

import "testing"

func TestQueryResultCounts(t *testing.T) {
	empty := QueryResult{GeosetID: "zones"}
	if empty.MatchCount() != 0 {
		t.Errorf("MatchCount() = %d, want 0", empty.MatchCount())
	}
	if empty.HasMatches() {
		t.Error("HasMatches() should be false for an empty result")
	}

	full := QueryResult{
		GeosetID: "zones",
		Matches:  []Match{{Name: "a"}, {Name: "b"}},
	}
	if full.MatchCount() != 2 {
		t.Errorf("MatchCount() = %d, want 2", full.MatchCount())
	}
	if !full.HasMatches() {
		t.Error("HasMatches() should be true")
	}
}

func TestQueryResponseAddResult(t *testing.T) {
	var resp QueryResponse

	resp.AddResult(QueryResult{
		GeosetID: "zones",
		Matches:  []Match{{Name: "a"}, {Name: "b"}},
	})
	resp.AddResult(QueryResult{
		GeosetID: "parks",
		Matches:  []Match{{Name: "c"}},
	})

	if len(resp.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.TotalMatches != 3 {
		t.Errorf("TotalMatches = %d, want 3", resp.TotalMatches)
	}
}
