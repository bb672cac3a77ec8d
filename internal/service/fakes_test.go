package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/notehub-gamification/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, &slog.HandlerOptions{Level: slog.LevelError + 4}))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakePointsStore keeps the ledger in memory with the same semantics as the
// SQL store: atomic increment, running total, append-only history.
type fakePointsStore struct {
	totals  map[string]int
	history map[string][]domain.PointEvent
	actions map[string]map[domain.Action]int
	err     error
}

func newFakePointsStore() *fakePointsStore {
	return &fakePointsStore{
		totals:  make(map[string]int),
		history: make(map[string][]domain.PointEvent),
		actions: make(map[string]map[domain.Action]int),
	}
}

func (f *fakePointsStore) AwardPoints(_ context.Context, userID string, action domain.Action, points int, at time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.totals[userID] += points
	f.history[userID] = append(f.history[userID], domain.PointEvent{Action: action, Points: points, Timestamp: at})
	if f.actions[userID] == nil {
		f.actions[userID] = make(map[domain.Action]int)
	}
	f.actions[userID][action]++
	return f.totals[userID], nil
}

func (f *fakePointsStore) GetPoints(_ context.Context, userID string) (domain.PointsRecord, error) {
	if f.err != nil {
		return domain.PointsRecord{}, f.err
	}
	total := f.totals[userID]
	info := domain.CalculateLevel(total)
	return domain.PointsRecord{UserID: userID, TotalPoints: total, Level: info.Level, LevelName: info.LevelName}, nil
}

func (f *fakePointsStore) EnsurePoints(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.totals[userID]; !ok {
		f.totals[userID] = 0
	}
	return nil
}

func (f *fakePointsStore) PointsHistory(_ context.Context, userID string, limit, offset int) ([]domain.PointEvent, error) {
	events := f.history[userID]
	if offset >= len(events) {
		return nil, nil
	}
	events = events[offset:]
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (f *fakePointsStore) CountActions(_ context.Context, userID string, action domain.Action) (int, error) {
	return f.actions[userID][action], nil
}

// fakeNotifier records enqueued notifications
type fakeNotifier struct {
	sent []domain.Notification
	err  error
}

func (f *fakeNotifier) Enqueue(_ context.Context, userID string, typ domain.NotificationType, payload map[string]interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, domain.Notification{UserID: userID, Type: typ, Payload: payload})
	return nil
}

func (f *fakeNotifier) countOf(typ domain.NotificationType) int {
	n := 0
	for _, msg := range f.sent {
		if msg.Type == typ {
			n++
		}
	}
	return n
}

// fakeStreakStore mirrors the SQL upsert: same-day keeps, consecutive-day
// extends, gap resets, and the previous date is returned for classification.
type fakeStreakStore struct {
	records map[string]domain.StreakRecord
	err     error
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{records: make(map[string]domain.StreakRecord)}
}

func (f *fakeStreakStore) RecordActivity(_ context.Context, userID string, now time.Time) (domain.StreakRecord, *time.Time, error) {
	if f.err != nil {
		return domain.StreakRecord{}, nil, f.err
	}
	rec := f.records[userID]
	rec.UserID = userID

	var prev *time.Time
	if rec.LastActivityDate != nil {
		d := *rec.LastActivityDate
		prev = &d
	}

	today := domain.UTCDate(now)
	switch {
	case prev == nil:
		rec.CurrentStreak = 1
	case domain.UTCDate(*prev).Equal(today):
		// same day, streak unchanged
	case domain.UTCDate(*prev).AddDate(0, 0, 1).Equal(today):
		rec.CurrentStreak++
	default:
		rec.CurrentStreak = 1
	}
	if rec.CurrentStreak > rec.LongestStreak {
		rec.LongestStreak = rec.CurrentStreak
	}
	rec.TotalActivities++
	rec.LastActivityDate = &today
	rec.UpdatedAt = now
	f.records[userID] = rec
	return rec, prev, nil
}

func (f *fakeStreakStore) GetStreak(_ context.Context, userID string) (domain.StreakRecord, error) {
	if f.err != nil {
		return domain.StreakRecord{}, f.err
	}
	rec := f.records[userID]
	rec.UserID = userID
	return rec, nil
}

func (f *fakeStreakStore) EnsureStreak(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.records[userID]; !ok {
		f.records[userID] = domain.StreakRecord{UserID: userID}
	}
	return nil
}

// fakeAchievementStore implements insert-if-absent unlock semantics
type fakeAchievementStore struct {
	unlocked map[string]map[string]time.Time
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{unlocked: make(map[string]map[string]time.Time)}
}

func (f *fakeAchievementStore) UnlockedAchievements(_ context.Context, userID string) (map[string]time.Time, error) {
	out := make(map[string]time.Time, len(f.unlocked[userID]))
	for id, at := range f.unlocked[userID] {
		out[id] = at
	}
	return out, nil
}

func (f *fakeAchievementStore) TryUnlock(_ context.Context, userID, achievementID string, at time.Time) (bool, error) {
	if f.unlocked[userID] == nil {
		f.unlocked[userID] = make(map[string]time.Time)
	}
	if _, exists := f.unlocked[userID][achievementID]; exists {
		return false, nil
	}
	f.unlocked[userID][achievementID] = at
	return true, nil
}

// fakeStats serves a fixed snapshot
type fakeStats struct {
	snap domain.StatsSnapshot
	err  error
}

func (f *fakeStats) Snapshot(_ context.Context, _ string) (domain.StatsSnapshot, error) {
	return f.snap, f.err
}

// fakeReferralStore mirrors the SQL referral table semantics: unique codes,
// set-once referred_by, idempotent first-upload claim.
type fakeReferralStore struct {
	records map[string]domain.ReferralRecord
	claimed map[string]bool
}

func newFakeReferralStore() *fakeReferralStore {
	return &fakeReferralStore{
		records: make(map[string]domain.ReferralRecord),
		claimed: make(map[string]bool),
	}
}

func (f *fakeReferralStore) CreateReferral(_ context.Context, userID, code string, at time.Time) error {
	if _, exists := f.records[userID]; exists {
		return nil
	}
	for _, rec := range f.records {
		if rec.ReferralCode == code {
			return domain.ErrReferralCodeTaken
		}
	}
	f.records[userID] = domain.ReferralRecord{UserID: userID, ReferralCode: code, UpdatedAt: at}
	return nil
}

func (f *fakeReferralStore) GetReferral(_ context.Context, userID string) (domain.ReferralRecord, bool, error) {
	rec, ok := f.records[userID]
	if !ok {
		return domain.ReferralRecord{UserID: userID}, false, nil
	}
	return rec, true, nil
}

func (f *fakeReferralStore) FindReferralByCode(_ context.Context, code string) (domain.ReferralRecord, error) {
	for _, rec := range f.records {
		if rec.ReferralCode == code {
			return rec, nil
		}
	}
	return domain.ReferralRecord{}, domain.ErrReferralCodeNotFound
}

func (f *fakeReferralStore) ApplyReferralToUser(_ context.Context, userID, code string, bonusDownloads int, at time.Time) (bool, error) {
	rec, ok := f.records[userID]
	if !ok || rec.ReferredBy != "" {
		return false, nil
	}
	rec.ReferredBy = code
	rec.Rewards.BonusDownloads += bonusDownloads
	rec.UpdatedAt = at
	f.records[userID] = rec
	return true, nil
}

func (f *fakeReferralStore) CreditReferrer(_ context.Context, referrerID string, referred domain.ReferredUser, bonusDownloads int, at time.Time) error {
	rec, ok := f.records[referrerID]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.TotalReferrals++
	rec.Rewards.BonusDownloads += bonusDownloads
	rec.ReferredUsers = append(rec.ReferredUsers, referred)
	rec.UpdatedAt = at
	f.records[referrerID] = rec
	return nil
}

func (f *fakeReferralStore) ClaimFirstUploadReward(_ context.Context, userID string, at time.Time) (string, bool, error) {
	rec, ok := f.records[userID]
	if !ok || rec.ReferredBy == "" || f.claimed[userID] {
		return "", false, nil
	}
	f.claimed[userID] = true
	rec.UpdatedAt = at
	f.records[userID] = rec
	return rec.ReferredBy, true, nil
}

func (f *fakeReferralStore) AddBonusDownloads(_ context.Context, userID string, n int, at time.Time) error {
	rec, ok := f.records[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.Rewards.BonusDownloads += n
	rec.UpdatedAt = at
	f.records[userID] = rec
	return nil
}

// fakeDirectory serves fixed user profiles
type fakeDirectory struct {
	users map[string]domain.UserProfile
}

func (f *fakeDirectory) GetUser(_ context.Context, userID string) (domain.UserProfile, error) {
	u, ok := f.users[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrUserNotFound
	}
	return u, nil
}

// fakeLeaderboardStore serves fixed ranked entries and scope listings, and
// counts how many builds ran
type fakeLeaderboardStore struct {
	entries     []domain.LeaderboardEntry
	total       int
	colleges    []string
	departments []string
	builds      int
}

func (f *fakeLeaderboardStore) BuildLeaderboard(_ context.Context, _ domain.Scope, _ string, limit int) ([]domain.LeaderboardEntry, error) {
	f.builds++
	entries := f.entries
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (f *fakeLeaderboardStore) CountUsers(_ context.Context, _ domain.Scope, _ string) (int, error) {
	return f.total, nil
}

func (f *fakeLeaderboardStore) DistinctColleges(_ context.Context) ([]string, error) {
	return f.colleges, nil
}

func (f *fakeLeaderboardStore) DistinctDepartments(_ context.Context) ([]string, error) {
	return f.departments, nil
}

// fakeSnapshotCache stores snapshots keyed by scope and filter, recording the
// TTL each Set used
type fakeSnapshotCache struct {
	snaps map[string]*domain.LeaderboardSnapshot
	ttls  map[string]time.Duration
	err   error
}

func newFakeSnapshotCache() *fakeSnapshotCache {
	return &fakeSnapshotCache{
		snaps: make(map[string]*domain.LeaderboardSnapshot),
		ttls:  make(map[string]time.Duration),
	}
}

func cacheKey(scope domain.Scope, filter string) string {
	return string(scope) + "|" + filter
}

func (f *fakeSnapshotCache) Get(_ context.Context, scope domain.Scope, filter string) (*domain.LeaderboardSnapshot, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	snap, ok := f.snaps[cacheKey(scope, filter)]
	return snap, ok, nil
}

func (f *fakeSnapshotCache) Set(_ context.Context, snap *domain.LeaderboardSnapshot, ttl time.Duration) error {
	f.snaps[cacheKey(snap.Scope, snap.Filter)] = snap
	f.ttls[cacheKey(snap.Scope, snap.Filter)] = ttl
	return nil
}

func (f *fakeSnapshotCache) InvalidateAll(_ context.Context) error {
	f.snaps = make(map[string]*domain.LeaderboardSnapshot)
	f.ttls = make(map[string]time.Duration)
	return nil
}
