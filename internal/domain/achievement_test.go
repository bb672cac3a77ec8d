package domain

import "testing"

func TestCatalogIntegrity(t *testing.T) {
	if len(AchievementCatalog) < 40 {
		t.Fatalf("catalog has %d entries, expected the full static set", len(AchievementCatalog))
	}

	seen := make(map[string]bool, len(AchievementCatalog))
	for _, def := range AchievementCatalog {
		if def.ID == "" || def.Name == "" {
			t.Errorf("catalog entry missing id or name: %+v", def)
		}
		if seen[def.ID] {
			t.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true

		if len(def.Criteria) == 0 {
			t.Errorf("achievement %q has no criteria", def.ID)
		}
		if def.Match != MatchAny && def.Match != MatchAll {
			t.Errorf("achievement %q has no explicit match mode", def.ID)
		}
		if def.Points <= 0 {
			t.Errorf("achievement %q awards %d points", def.ID, def.Points)
		}
		for _, c := range def.Criteria {
			// Every catalog criterion must reference a stat the snapshot
			// carries, or the entry can never unlock.
			if _, ok := (StatsSnapshot{}).Get(c.Stat); !ok {
				t.Errorf("achievement %q references stat %q absent from the snapshot", def.ID, c.Stat)
			}
			if c.Kind == CriterionMinCount && c.Min <= 0 {
				t.Errorf("achievement %q has min-count criterion with min %d", def.ID, c.Min)
			}
		}
	}
}

func TestQualifiesMinCount(t *testing.T) {
	def, ok := AchievementByID("week_warrior")
	if !ok {
		t.Fatal("week_warrior missing from catalog")
	}
	if def.Points != 100 {
		t.Errorf("week_warrior points = %d, want 100", def.Points)
	}

	if def.Qualifies(StatsSnapshot{CurrentStreak: 6}) {
		t.Error("streak 6 should not qualify for week_warrior")
	}
	if !def.Qualifies(StatsSnapshot{CurrentStreak: 7}) {
		t.Error("streak 7 should qualify for week_warrior")
	}
	if !def.Qualifies(StatsSnapshot{CurrentStreak: 30}) {
		t.Error("streak 30 should qualify for week_warrior")
	}
}

func TestQualifiesAnyMatchesFirstSatisfied(t *testing.T) {
	def, ok := AchievementByID("all_rounder")
	if !ok {
		t.Fatal("all_rounder missing from catalog")
	}
	if def.Match != MatchAny {
		t.Fatalf("all_rounder match mode = %q, want any", def.Match)
	}

	if !def.Qualifies(StatsSnapshot{Uploads: 10}) {
		t.Error("uploads alone should satisfy an any-match definition")
	}
	if !def.Qualifies(StatsSnapshot{Followers: 10}) {
		t.Error("followers alone should satisfy an any-match definition")
	}
	if def.Qualifies(StatsSnapshot{Uploads: 9, Followers: 9}) {
		t.Error("neither criterion met, should not qualify")
	}
}

func TestQualifiesSkipsUnknownStats(t *testing.T) {
	def := AchievementDefinition{
		ID:    "test_future",
		Match: MatchAny,
		Criteria: []Criterion{
			{Stat: Stat("quiz_wins"), Kind: CriterionMinCount, Min: 1},
		},
	}
	// quiz_wins is not carried by the snapshot, so the criterion is skipped
	// and the definition never matches through evaluation.
	if def.Qualifies(StatsSnapshot{Uploads: 1000, Followers: 1000}) {
		t.Error("criterion on a stat absent from the snapshot must not match")
	}
}

func TestProfilePro(t *testing.T) {
	def, ok := AchievementByID("profile_pro")
	if !ok {
		t.Fatal("profile_pro missing from catalog")
	}
	if def.Match != MatchAll {
		t.Fatalf("profile_pro match mode = %q, want %q", def.Match, MatchAll)
	}
	if def.Qualifies(StatsSnapshot{ProfileComplete: true}) {
		t.Error("profile completion alone should not qualify without an upload")
	}
	if def.Qualifies(StatsSnapshot{Uploads: 3}) {
		t.Error("uploads alone should not qualify without a complete profile")
	}
	if !def.Qualifies(StatsSnapshot{ProfileComplete: true, Uploads: 1}) {
		t.Error("complete profile plus first upload should qualify")
	}
}

func TestQualifiesMatchAll(t *testing.T) {
	def := AchievementDefinition{
		ID:    "test_all",
		Match: MatchAll,
		Criteria: []Criterion{
			{Stat: StatUploads, Kind: CriterionMinCount, Min: 5},
			{Stat: StatFollowers, Kind: CriterionMinCount, Min: 5},
		},
	}

	if def.Qualifies(StatsSnapshot{Uploads: 5}) {
		t.Error("all-match should require every present criterion")
	}
	if !def.Qualifies(StatsSnapshot{Uploads: 5, Followers: 5}) {
		t.Error("all criteria met, should qualify")
	}

	noneKnown := AchievementDefinition{
		ID:       "test_unknown",
		Match:    MatchAll,
		Criteria: []Criterion{{Stat: Stat("quiz_wins"), Kind: CriterionMinCount, Min: 1}},
	}
	if noneKnown.Qualifies(StatsSnapshot{}) {
		t.Error("all-match with no known criteria should not qualify")
	}
}

func TestCriterionBoolExact(t *testing.T) {
	c := Criterion{Stat: StatUploads, Kind: CriterionBoolExact, Bool: true}
	if ok, known := c.Satisfied(StatsSnapshot{Uploads: 0}); !known || ok {
		t.Errorf("uploads=0 against bool-true: ok=%v known=%v", ok, known)
	}
	if ok, known := c.Satisfied(StatsSnapshot{Uploads: 3}); !known || !ok {
		t.Errorf("uploads=3 against bool-true: ok=%v known=%v", ok, known)
	}
}
