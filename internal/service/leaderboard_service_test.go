package service

import (
	"testing"
	"time"

	"greenquest_backend/internal/model"
)

func TestLeaderboardRanking(t *testing.T) {
	f := newFixture(t)
	alice := createUser(t, f.db, "alice", model.Student)
	bob := createUser(t, f.db, "bob", model.Student)
	carol := createUser(t, f.db, "carol", model.Student)

	challengeID := uint(1)
	if err := f.leaderboard.Upsert(challengeID, bob.ID, 50, testNow.Add(time.Minute)); err != nil {
		t.Fatalf("upsert bob: %v", err)
	}
	if err := f.leaderboard.Upsert(challengeID, alice.ID, 100, testNow.Add(2*time.Minute)); err != nil {
		t.Fatalf("upsert alice: %v", err)
	}
	if err := f.leaderboard.Upsert(challengeID, carol.ID, 100, testNow.Add(3*time.Minute)); err != nil {
		t.Fatalf("upsert carol: %v", err)
	}

	ranked, err := f.leaderboard.Rank(challengeID, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(ranked))
	}

	// Score descending, earliest completion breaking the 100-point tie.
	want := []struct {
		userID uint
		name   string
		score  float64
	}{
		{alice.ID, "alice", 100},
		{carol.ID, "carol", 100},
		{bob.ID, "bob", 50},
	}
	for i, w := range want {
		got := ranked[i]
		if got.Rank != i+1 {
			t.Errorf("entry %d: rank = %d, want %d", i, got.Rank, i+1)
		}
		if got.UserID != w.userID || got.Name != w.name || got.Score != w.score {
			t.Errorf("entry %d = %+v, want user %s with score %v", i, got, w.name, w.score)
		}
	}
}

func TestLeaderboardUpsertKeepsBest(t *testing.T) {
	f := newFixture(t)
	alice := createUser(t, f.db, "alice", model.Student)

	challengeID := uint(7)
	first := testNow
	later := testNow.Add(time.Hour)

	if err := f.leaderboard.Upsert(challengeID, alice.ID, 80, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	// A worse score later must not displace the stored entry.
	if err := f.leaderboard.Upsert(challengeID, alice.ID, 40, later); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	ranked, err := f.leaderboard.Rank(challengeID, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected one entry per (challenge, user), got %d", len(ranked))
	}
	if ranked[0].Score != 80 {
		t.Errorf("score = %v, want the best score 80", ranked[0].Score)
	}
	if !ranked[0].CompletedAt.Equal(first) {
		t.Errorf("completed at = %v, want the earliest %v", ranked[0].CompletedAt, first)
	}

	// A better score replaces the score but keeps the earliest stamp.
	if err := f.leaderboard.Upsert(challengeID, alice.ID, 120, later); err != nil {
		t.Fatalf("third upsert: %v", err)
	}
	ranked, err = f.leaderboard.Rank(challengeID, 10)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if ranked[0].Score != 120 || !ranked[0].CompletedAt.Equal(first) {
		t.Errorf("entry = %+v, want score 120 at %v", ranked[0], first)
	}
}

func TestLeaderboardLimit(t *testing.T) {
	f := newFixture(t)

	challengeID := uint(3)
	for i := 0; i < 5; i++ {
		u := createUser(t, f.db, "user-"+string(rune('a'+i)), model.Student)
		if err := f.leaderboard.Upsert(challengeID, u.ID, float64(10*(i+1)), testNow.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	ranked, err := f.leaderboard.Rank(challengeID, 2)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("limit 2 should return 2 entries, got %d", len(ranked))
	}
	if ranked[0].Score != 50 || ranked[1].Score != 40 {
		t.Errorf("expected the two best scores, got %+v", ranked)
	}

	// Out-of-range limits fall back to the cap instead of failing.
	if _, err := f.leaderboard.Rank(challengeID, -1); err != nil {
		t.Errorf("negative limit should be clamped: %v", err)
	}
	if _, err := f.leaderboard.Rank(challengeID, 1000); err != nil {
		t.Errorf("huge limit should be clamped: %v", err)
	}
}
