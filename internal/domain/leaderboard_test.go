package domain

import "testing"

func TestComputeScore(t *testing.T) {
	// total_points + uploads*100 + downloads_received*5 + streak*10
	if got := ComputeScore(2500, 3, 10, 7); got != 2920 {
		t.Errorf("ComputeScore = %d, want 2920", got)
	}
	if got := ComputeScore(0, 0, 0, 0); got != 0 {
		t.Errorf("zero stats should score 0, got %d", got)
	}
}

func TestValidateScope(t *testing.T) {
	if err := ValidateScope(ScopeAllIndia, ""); err != nil {
		t.Errorf("all_india needs no filter: %v", err)
	}
	if err := ValidateScope(ScopeCollege, ""); err != ErrScopeFilterRequired {
		t.Errorf("college without filter should fail, got %v", err)
	}
	if err := ValidateScope(ScopeDepartment, "CSE"); err != nil {
		t.Errorf("department with filter: %v", err)
	}
	if err := ValidateScope("galaxy", ""); err != ErrInvalidScope {
		t.Errorf("unknown scope should fail, got %v", err)
	}
}

func TestRequesterRank(t *testing.T) {
	snap := &LeaderboardSnapshot{
		Entries: []LeaderboardEntry{
			{Rank: 1, UserID: "u1", Score: 300},
			{Rank: 2, UserID: "u2", Score: 200},
			{Rank: 3, UserID: "u3", Score: 200},
		},
		TotalUsers: 120,
	}

	if got := snap.RequesterRank("u2"); got != 2 {
		t.Errorf("rank of listed user = %d, want 2", got)
	}
	// Users outside the truncated list get the total+1 placeholder.
	if got := snap.RequesterRank("u99"); got != 121 {
		t.Errorf("rank of unlisted user = %d, want 121", got)
	}
	if got := snap.RequesterRank(""); got != 0 {
		t.Errorf("anonymous requester = %d, want 0", got)
	}
}
