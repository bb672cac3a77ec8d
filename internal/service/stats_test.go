package service

import (
	"context"
	"errors"
	"testing"

	"github.com/notehub-gamification/internal/domain"
)

// fakeCollaborators serves fixed counters for every collaborator read the
// stats collector performs
type fakeCollaborators struct {
	uploads           int
	downloadsReceived int
	followers         int
	following         int
	groupsCreated     int
	groupsJoined      int
	notesErr          error
}

func (f *fakeCollaborators) CountUploads(_ context.Context, _ string, approvedOnly bool) (int, error) {
	if f.notesErr != nil {
		return 0, f.notesErr
	}
	if !approvedOnly {
		return 0, errors.New("snapshot must count approved uploads only")
	}
	return f.uploads, nil
}

func (f *fakeCollaborators) SumDownloadCount(_ context.Context, _ string) (int, error) {
	return f.downloadsReceived, f.notesErr
}

func (f *fakeCollaborators) CountFollowers(_ context.Context, _ string) (int, error) {
	return f.followers, nil
}

func (f *fakeCollaborators) CountFollowing(_ context.Context, _ string) (int, error) {
	return f.following, nil
}

func (f *fakeCollaborators) CountGroupsCreated(_ context.Context, _ string) (int, error) {
	return f.groupsCreated, nil
}

func (f *fakeCollaborators) CountGroupsJoined(_ context.Context, _ string) (int, error) {
	return f.groupsJoined, nil
}

func TestSnapshotGathersEveryStat(t *testing.T) {
	collab := &fakeCollaborators{
		uploads:           12,
		downloadsReceived: 340,
		followers:         8,
		following:         15,
		groupsCreated:     1,
		groupsJoined:      4,
	}
	points := newFakePointsStore()
	points.totals["u1"] = 2600
	points.actions["u1"] = map[domain.Action]int{
		domain.ActionDownloadNote:    30,
		domain.ActionShareNote:       6,
		domain.ActionProfileComplete: 1,
	}
	streaks := newFakeStreakStore()
	streaks.records["u1"] = domain.StreakRecord{CurrentStreak: 5, LongestStreak: 9, TotalActivities: 80}
	referrals := newFakeReferralStore()
	referrals.records["u1"] = domain.ReferralRecord{UserID: "u1", ReferralCode: "ARMA123", TotalReferrals: 2}

	collector := NewStatsCollector(collab, collab, collab, points, streaks, referrals)

	snap, err := collector.Snapshot(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	want := domain.StatsSnapshot{
		Uploads:               12,
		Downloads:             30,
		NoteDownloadsReceived: 340,
		CurrentStreak:         5,
		TotalActivities:       80,
		Referrals:             2,
		Shares:                6,
		Followers:             8,
		Following:             15,
		GroupsCreated:         1,
		GroupsJoined:          4,
		Level:                 5,
		ProfileComplete:       true,
	}
	if snap != want {
		t.Errorf("snapshot = %+v, want %+v", snap, want)
	}
}

func TestSnapshotFailsClosed(t *testing.T) {
	collab := &fakeCollaborators{notesErr: errors.New("notes db down")}
	collector := NewStatsCollector(collab, collab, collab, newFakePointsStore(), newFakeStreakStore(), newFakeReferralStore())

	_, err := collector.Snapshot(context.Background(), "u1")
	if err == nil {
		t.Fatal("expected snapshot to fail when a collaborator read fails")
	}
}

func TestSnapshotMissingRecordsReadAsZero(t *testing.T) {
	collab := &fakeCollaborators{}
	collector := NewStatsCollector(collab, collab, collab, newFakePointsStore(), newFakeStreakStore(), newFakeReferralStore())

	snap, err := collector.Snapshot(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snap.Uploads != 0 || snap.CurrentStreak != 0 || snap.Referrals != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
	if snap.Level != 1 {
		t.Errorf("level = %d, want 1 at zero points", snap.Level)
	}
}
