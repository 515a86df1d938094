package service

import (
	"errors"
	"testing"

	"greenquest_backend/internal/model"
	"greenquest_backend/internal/util"
)

func TestJoinChallenge(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "teacher", model.Teacher)
	student := createUser(t, f.db, "student", model.Student)
	challenge := f.createChallenge(t, creator.ID, basicChallengeRequest())

	p, err := f.participation.Join(student.ID, challenge.ID)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if p.CurrentProgress != 0 || p.Completed {
		t.Errorf("fresh participation should start at zero, got %+v", p)
	}
	if !p.JoinedAt.Equal(testNow) {
		t.Errorf("joined at should be stamped with the clock, got %v", p.JoinedAt)
	}

	// The join should have produced a notification for the student.
	ns, err := f.notification.ListMine(student.ID, 10)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(ns) != 1 || ns[0].Type != model.NotificationChallengeJoined {
		t.Errorf("expected one challenge_joined notification, got %+v", ns)
	}
}

func TestJoinRejections(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "teacher", model.Teacher)
	student := createUser(t, f.db, "student", model.Student)

	if _, err := f.participation.Join(student.ID, 9999); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unknown challenge: expected not found, got %v", err)
	}

	challenge := f.createChallenge(t, creator.ID, basicChallengeRequest())
	if _, err := f.participation.Join(student.ID, challenge.ID); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := f.participation.Join(student.ID, challenge.ID); !errors.Is(err, util.ErrAlreadyJoined) {
		t.Errorf("second join: expected already joined, got %v", err)
	}

	ended := f.createChallenge(t, creator.ID, basicChallengeRequest())
	if err := f.challenge.End(ended.ID, creator.ID); err != nil {
		t.Fatalf("end challenge: %v", err)
	}
	if _, err := f.participation.Join(student.ID, ended.ID); !errors.Is(err, util.ErrChallengeInactive) {
		t.Errorf("ended challenge: expected inactive error, got %v", err)
	}
}

func TestUpdateProgressClampAndCompletion(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "teacher", model.Teacher)
	student := createUser(t, f.db, "student", model.Student)
	challenge := f.createChallenge(t, creator.ID, basicChallengeRequest()) // target 7, reward 100

	var events []ParticipationCompleted
	f.bus.Subscribe(func(e ParticipationCompleted) { events = append(events, e) })

	if _, err := f.participation.UpdateProgress(student.ID, challenge.ID, 3); !errors.Is(err, util.ErrNotParticipating) {
		t.Fatalf("progress before join: expected not participating, got %v", err)
	}

	if _, err := f.participation.Join(student.ID, challenge.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	p, err := f.participation.UpdateProgress(student.ID, challenge.ID, -5)
	if err != nil {
		t.Fatalf("negative progress: %v", err)
	}
	if p.CurrentProgress != 0 {
		t.Errorf("negative progress should clamp to 0, got %v", p.CurrentProgress)
	}

	p, err = f.participation.UpdateProgress(student.ID, challenge.ID, 50)
	if err != nil {
		t.Fatalf("overshoot progress: %v", err)
	}
	if p.CurrentProgress != 7 {
		t.Errorf("overshoot should clamp to target, got %v", p.CurrentProgress)
	}
	if !p.Completed || p.CompletedAt == nil {
		t.Fatalf("reaching the target should complete the participation, got %+v", p)
	}

	if len(events) != 1 {
		t.Fatalf("expected exactly one completion event, got %d", len(events))
	}
	if events[0].Score != 100 {
		t.Errorf("completion score should equal the points reward, got %v", events[0].Score)
	}
	if events[0].UserID != student.ID || events[0].ChallengeID != challenge.ID {
		t.Errorf("event carries wrong identifiers: %+v", events[0])
	}

	// Points were credited through the bus.
	refreshed, err := f.user.GetUser(student.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if refreshed.Points != 100 {
		t.Errorf("expected 100 points credited, got %d", refreshed.Points)
	}
}

func TestCompletionIsMonotonic(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "teacher", model.Teacher)
	student := createUser(t, f.db, "student", model.Student)
	challenge := f.createChallenge(t, creator.ID, basicChallengeRequest())

	var eventCount int
	f.bus.Subscribe(func(ParticipationCompleted) { eventCount++ })

	if _, err := f.participation.Join(student.ID, challenge.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := f.participation.UpdateProgress(student.ID, challenge.ID, 7); err != nil {
		t.Fatalf("complete: %v", err)
	}

	// Dropping below the target afterwards moves the number but never
	// reopens the completion.
	p, err := f.participation.UpdateProgress(student.ID, challenge.ID, 2)
	if err != nil {
		t.Fatalf("post-completion progress: %v", err)
	}
	if p.CurrentProgress != 2 {
		t.Errorf("progress value should still track reports, got %v", p.CurrentProgress)
	}

	stored, err := f.participation.ListMine(student.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(stored) != 1 || !stored[0].Completed {
		t.Errorf("participation should stay completed, got %+v", stored)
	}

	// Crossing the target a second time must not fire another event.
	if _, err := f.participation.UpdateProgress(student.ID, challenge.ID, 7); err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	if eventCount != 1 {
		t.Errorf("completion event should fire exactly once, fired %d times", eventCount)
	}
}
