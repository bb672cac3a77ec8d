package domain

// minCount is shorthand for a single integer-minimum criterion
func minCount(stat Stat, min int) []Criterion {
	return []Criterion{{Stat: stat, Kind: CriterionMinCount, Min: min}}
}

// AchievementCatalog is the static, immutable achievement list. Entries are
// never added, removed or changed at runtime. Multi-criteria entries keep the
// historical first-match (any) semantics; the mode is explicit per entry.
var AchievementCatalog = []AchievementDefinition{
	// Uploads
	{ID: "first_upload", Name: "First Upload", Description: "Upload your first note", Category: "uploads", Icon: "📄", Criteria: minCount(StatUploads, 1), Match: MatchAny, Rarity: RarityCommon, Points: 50},
	{ID: "note_taker", Name: "Note Taker", Description: "Upload 5 notes", Category: "uploads", Icon: "📝", Criteria: minCount(StatUploads, 5), Match: MatchAny, Rarity: RarityCommon, Points: 75},
	{ID: "dedicated_uploader", Name: "Dedicated Uploader", Description: "Upload 10 notes", Category: "uploads", Icon: "📚", Criteria: minCount(StatUploads, 10), Match: MatchAny, Rarity: RarityUncommon, Points: 100},
	{ID: "knowledge_sharer", Name: "Knowledge Sharer", Description: "Upload 25 notes", Category: "uploads", Icon: "🎓", Criteria: minCount(StatUploads, 25), Match: MatchAny, Rarity: RarityRare, Points: 250},
	{ID: "upload_machine", Name: "Upload Machine", Description: "Upload 50 notes", Category: "uploads", Icon: "🏭", Criteria: minCount(StatUploads, 50), Match: MatchAny, Rarity: RarityEpic, Points: 500},
	{ID: "archive_builder", Name: "Archive Builder", Description: "Upload 100 notes", Category: "uploads", Icon: "🏛️", Criteria: minCount(StatUploads, 100), Match: MatchAny, Rarity: RarityLegendary, Points: 1000},

	// Popularity: downloads received on own notes
	{ID: "first_fan", Name: "First Fan", Description: "Someone downloaded your note", Category: "popularity", Icon: "⭐", Criteria: minCount(StatNoteDownloadsReceived, 1), Match: MatchAny, Rarity: RarityCommon, Points: 25},
	{ID: "helping_hand", Name: "Helping Hand", Description: "Your notes were downloaded 10 times", Category: "popularity", Icon: "🤝", Criteria: minCount(StatNoteDownloadsReceived, 10), Match: MatchAny, Rarity: RarityCommon, Points: 50},
	{ID: "crowd_favorite", Name: "Crowd Favorite", Description: "Your notes were downloaded 50 times", Category: "popularity", Icon: "🏅", Criteria: minCount(StatNoteDownloadsReceived, 50), Match: MatchAny, Rarity: RarityUncommon, Points: 150},
	{ID: "campus_hit", Name: "Campus Hit", Description: "Your notes were downloaded 100 times", Category: "popularity", Icon: "🔥", Criteria: minCount(StatNoteDownloadsReceived, 100), Match: MatchAny, Rarity: RarityRare, Points: 300},
	{ID: "download_magnet", Name: "Download Magnet", Description: "Your notes were downloaded 500 times", Category: "popularity", Icon: "🧲", Criteria: minCount(StatNoteDownloadsReceived, 500), Match: MatchAny, Rarity: RarityEpic, Points: 750},

	// Streak
	{ID: "getting_started", Name: "Getting Started", Description: "3-day activity streak", Category: "streak", Icon: "🌱", Criteria: minCount(StatCurrentStreak, 3), Match: MatchAny, Rarity: RarityCommon, Points: 30},
	{ID: "week_warrior", Name: "Week Warrior", Description: "7-day activity streak", Category: "streak", Icon: "⚔️", Criteria: minCount(StatCurrentStreak, 7), Match: MatchAny, Rarity: RarityCommon, Points: 100},
	{ID: "fortnight_focus", Name: "Fortnight Focus", Description: "14-day activity streak", Category: "streak", Icon: "🎯", Criteria: minCount(StatCurrentStreak, 14), Match: MatchAny, Rarity: RarityUncommon, Points: 200},
	{ID: "monthly_master", Name: "Monthly Master", Description: "30-day activity streak", Category: "streak", Icon: "📅", Criteria: minCount(StatCurrentStreak, 30), Match: MatchAny, Rarity: RarityRare, Points: 400},
	{ID: "quarter_champion", Name: "Quarter Champion", Description: "90-day activity streak", Category: "streak", Icon: "🏆", Criteria: minCount(StatCurrentStreak, 90), Match: MatchAny, Rarity: RarityEpic, Points: 800},
	{ID: "unstoppable", Name: "Unstoppable", Description: "180-day activity streak", Category: "streak", Icon: "🚀", Criteria: minCount(StatCurrentStreak, 180), Match: MatchAny, Rarity: RarityLegendary, Points: 1500},

	// Downloads performed
	{ID: "curious_mind", Name: "Curious Mind", Description: "Download your first note", Category: "downloads", Icon: "🔍", Criteria: minCount(StatDownloads, 1), Match: MatchAny, Rarity: RarityCommon, Points: 10},
	{ID: "avid_reader", Name: "Avid Reader", Description: "Download 10 notes", Category: "downloads", Icon: "👓", Criteria: minCount(StatDownloads, 10), Match: MatchAny, Rarity: RarityCommon, Points: 30},
	{ID: "bookworm", Name: "Bookworm", Description: "Download 50 notes", Category: "downloads", Icon: "🐛", Criteria: minCount(StatDownloads, 50), Match: MatchAny, Rarity: RarityUncommon, Points: 100},
	{ID: "knowledge_hunter", Name: "Knowledge Hunter", Description: "Download 200 notes", Category: "downloads", Icon: "🏹", Criteria: minCount(StatDownloads, 200), Match: MatchAny, Rarity: RarityRare, Points: 250},

	// Shares
	{ID: "first_share", Name: "First Share", Description: "Share a note with someone", Category: "shares", Icon: "📤", Criteria: minCount(StatShares, 1), Match: MatchAny, Rarity: RarityCommon, Points: 20},
	{ID: "spreading_word", Name: "Spreading the Word", Description: "Share 10 notes", Category: "shares", Icon: "📢", Criteria: minCount(StatShares, 10), Match: MatchAny, Rarity: RarityUncommon, Points: 75},
	{ID: "campus_broadcaster", Name: "Campus Broadcaster", Description: "Share 50 notes", Category: "shares", Icon: "📡", Criteria: minCount(StatShares, 50), Match: MatchAny, Rarity: RarityRare, Points: 200},

	// Social: followers
	{ID: "first_follower", Name: "First Follower", Description: "Gain your first follower", Category: "social", Icon: "🙋", Criteria: minCount(StatFollowers, 1), Match: MatchAny, Rarity: RarityCommon, Points: 25},
	{ID: "rising_star", Name: "Rising Star", Description: "Gain 10 followers", Category: "social", Icon: "🌟", Criteria: minCount(StatFollowers, 10), Match: MatchAny, Rarity: RarityUncommon, Points: 100},
	{ID: "campus_celebrity", Name: "Campus Celebrity", Description: "Gain 50 followers", Category: "social", Icon: "💫", Criteria: minCount(StatFollowers, 50), Match: MatchAny, Rarity: RarityRare, Points: 300},
	{ID: "influencer", Name: "Influencer", Description: "Gain 100 followers", Category: "social", Icon: "👑", Criteria: minCount(StatFollowers, 100), Match: MatchAny, Rarity: RarityEpic, Points: 600},

	// Social: following
	{ID: "social_butterfly", Name: "Social Butterfly", Description: "Follow 10 people", Category: "social", Icon: "🦋", Criteria: minCount(StatFollowing, 10), Match: MatchAny, Rarity: RarityCommon, Points: 30},
	{ID: "networker", Name: "Networker", Description: "Follow 50 people", Category: "social", Icon: "🕸️", Criteria: minCount(StatFollowing, 50), Match: MatchAny, Rarity: RarityUncommon, Points: 100},

	// Groups
	{ID: "group_founder", Name: "Group Founder", Description: "Create a study group", Category: "groups", Icon: "🏗️", Criteria: minCount(StatGroupsCreated, 1), Match: MatchAny, Rarity: RarityCommon, Points: 50},
	{ID: "community_builder", Name: "Community Builder", Description: "Create 5 study groups", Category: "groups", Icon: "🏘️", Criteria: minCount(StatGroupsCreated, 5), Match: MatchAny, Rarity: RarityRare, Points: 250},
	{ID: "team_player", Name: "Team Player", Description: "Join a study group", Category: "groups", Icon: "🤼", Criteria: minCount(StatGroupsJoined, 1), Match: MatchAny, Rarity: RarityCommon, Points: 25},
	{ID: "group_hopper", Name: "Group Hopper", Description: "Join 5 study groups", Category: "groups", Icon: "🐇", Criteria: minCount(StatGroupsJoined, 5), Match: MatchAny, Rarity: RarityUncommon, Points: 75},
	{ID: "community_member", Name: "Community Member", Description: "Join 10 study groups", Category: "groups", Icon: "🏠", Criteria: minCount(StatGroupsJoined, 10), Match: MatchAny, Rarity: RarityRare, Points: 150},

	// Referrals
	{ID: "first_referral", Name: "First Referral", Description: "Refer a friend to the platform", Category: "referrals", Icon: "🧑‍🤝‍🧑", Criteria: minCount(StatReferrals, 1), Match: MatchAny, Rarity: RarityCommon, Points: 50},
	{ID: "friend_bringer", Name: "Friend Bringer", Description: "Refer 3 friends", Category: "referrals", Icon: "👋", Criteria: minCount(StatReferrals, 3), Match: MatchAny, Rarity: RarityUncommon, Points: 100},
	{ID: "recruiter", Name: "Recruiter", Description: "Refer 10 friends", Category: "referrals", Icon: "🪄", Criteria: minCount(StatReferrals, 10), Match: MatchAny, Rarity: RarityRare, Points: 300},
	{ID: "ambassador", Name: "Ambassador", Description: "Refer 25 friends", Category: "referrals", Icon: "🎖️", Criteria: minCount(StatReferrals, 25), Match: MatchAny, Rarity: RarityEpic, Points: 600},
	{ID: "campus_evangelist", Name: "Campus Evangelist", Description: "Refer 50 friends", Category: "referrals", Icon: "📣", Criteria: minCount(StatReferrals, 50), Match: MatchAny, Rarity: RarityLegendary, Points: 1200},

	// Level milestones
	{ID: "level_5", Name: "Helper", Description: "Reach level 5", Category: "level", Icon: "5️⃣", Criteria: minCount(StatLevel, 5), Match: MatchAny, Rarity: RarityCommon, Points: 50},
	{ID: "level_10", Name: "Contributor", Description: "Reach level 10", Category: "level", Icon: "🔟", Criteria: minCount(StatLevel, 10), Match: MatchAny, Rarity: RarityUncommon, Points: 100},
	{ID: "level_20", Name: "Expert", Description: "Reach level 20", Category: "level", Icon: "🧠", Criteria: minCount(StatLevel, 20), Match: MatchAny, Rarity: RarityRare, Points: 200},
	{ID: "level_30", Name: "Master", Description: "Reach level 30", Category: "level", Icon: "🥋", Criteria: minCount(StatLevel, 30), Match: MatchAny, Rarity: RarityEpic, Points: 400},
	{ID: "level_40", Name: "Legend", Description: "Reach level 40", Category: "level", Icon: "🐉", Criteria: minCount(StatLevel, 40), Match: MatchAny, Rarity: RarityEpic, Points: 800},
	{ID: "level_50", Name: "Grandmaster", Description: "Reach level 50", Category: "level", Icon: "♟️", Criteria: minCount(StatLevel, 50), Match: MatchAny, Rarity: RarityLegendary, Points: 2000},

	// Activity volume
	{ID: "active_member", Name: "Active Member", Description: "Log 50 activities", Category: "activity", Icon: "⚡", Criteria: minCount(StatTotalActivities, 50), Match: MatchAny, Rarity: RarityCommon, Points: 50},
	{ID: "power_user", Name: "Power User", Description: "Log 200 activities", Category: "activity", Icon: "🔋", Criteria: minCount(StatTotalActivities, 200), Match: MatchAny, Rarity: RarityUncommon, Points: 150},
	{ID: "platform_veteran", Name: "Platform Veteran", Description: "Log 1000 activities", Category: "activity", Icon: "🎗️", Criteria: minCount(StatTotalActivities, 1000), Match: MatchAny, Rarity: RarityEpic, Points: 500},

	// Cross-category
	{ID: "all_rounder", Name: "All-Rounder", Description: "Upload 10 notes or gain 10 followers", Category: "special", Icon: "🎪", Criteria: []Criterion{
		{Stat: StatUploads, Kind: CriterionMinCount, Min: 10},
		{Stat: StatFollowers, Kind: CriterionMinCount, Min: 10},
	}, Match: MatchAny, Rarity: RarityUncommon, Points: 100},
	{ID: "profile_pro", Name: "Profile Pro", Description: "Complete your profile and upload your first note", Category: "special", Icon: "🪪", Criteria: []Criterion{
		{Stat: StatProfileComplete, Kind: CriterionBoolExact, Bool: true},
		{Stat: StatUploads, Kind: CriterionMinCount, Min: 1},
	}, Match: MatchAll, Rarity: RarityCommon, Points: 25},
}

// AchievementByID returns the catalog entry for an ID
func AchievementByID(id string) (AchievementDefinition, bool) {
	for _, def := range AchievementCatalog {
		if def.ID == id {
			return def, true
		}
	}
	return AchievementDefinition{}, false
}
