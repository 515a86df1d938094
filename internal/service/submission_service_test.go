package service

import (
	"errors"
	"testing"

	"greenquest_backend/internal/model"
	"greenquest_backend/internal/util"
)

func geoChallengeRequest() ChallengeRequest {
	lat, lng, radius := 52.3676, 4.9041, 2.0 // central Amsterdam, 2 km
	req := basicChallengeRequest()
	req.Title = "Park cleanup"
	req.RequiresLocationVerification = true
	req.VerificationPhotosRequired = true
	req.GeofenceLat = &lat
	req.GeofenceLng = &lng
	req.GeofenceRadiusKM = &radius
	return req
}

func TestSubmitRequiresParticipation(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "ngo", model.NGO)
	student := createUser(t, f.db, "student", model.Student)
	challenge := f.createChallenge(t, creator.ID, basicChallengeRequest())

	_, err := f.submission.Submit(student.ID, challenge.ID, SubmissionRequest{SubmissionText: "done"})
	if !errors.Is(err, util.ErrNotParticipating) {
		t.Errorf("expected not participating, got %v", err)
	}

	_, err = f.submission.Submit(student.ID, 9999, SubmissionRequest{})
	if !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unknown challenge: expected not found, got %v", err)
	}
}

func TestSubmitProofRequirements(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "ngo", model.NGO)
	student := createUser(t, f.db, "student", model.Student)
	challenge := f.createChallenge(t, creator.ID, geoChallengeRequest())

	if _, err := f.participation.Join(student.ID, challenge.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, err := f.submission.Submit(student.ID, challenge.ID, SubmissionRequest{SubmissionText: "no proof"})
	if !errors.Is(err, util.ErrMissingRequiredProof) {
		t.Errorf("missing photos: expected missing-proof error, got %v", err)
	}

	_, err = f.submission.Submit(student.ID, challenge.ID, SubmissionRequest{
		PhotoURLs: []string{"https://cdn.example.org/p1.jpg"},
	})
	if !errors.Is(err, util.ErrMissingRequiredProof) {
		t.Errorf("missing location: expected missing-proof error, got %v", err)
	}

	// Utrecht is roughly 35 km from the geofence center.
	_, err = f.submission.Submit(student.ID, challenge.ID, SubmissionRequest{
		PhotoURLs: []string{"https://cdn.example.org/p1.jpg"},
		Location:  &SubmissionLocation{Lat: 52.0907, Lng: 5.1214},
	})
	if !errors.Is(err, util.ErrValidation) {
		t.Errorf("outside geofence: expected validation error, got %v", err)
	}

	// A few hundred meters from the center.
	sub, err := f.submission.Submit(student.ID, challenge.ID, SubmissionRequest{
		SubmissionText: "picked up 3 bags",
		PhotoURLs:      []string{"https://cdn.example.org/p1.jpg"},
		Location:       &SubmissionLocation{Lat: 52.3700, Lng: 4.9000, Address: "Vondelpark"},
	})
	if err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}
	if sub.VerificationStatus != model.VerificationPending {
		t.Errorf("new submission should be pending, got %s", sub.VerificationStatus)
	}
	if !sub.HasLocation() {
		t.Error("location should be stored on the submission")
	}
}

func TestHaversineKM(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKM                 float64
		tolerance              float64
	}{
		{"same point", 52.0, 5.0, 52.0, 5.0, 0, 0.001},
		{"amsterdam to utrecht", 52.3676, 4.9041, 52.0907, 5.1214, 35, 2},
		{"one degree of latitude", 0, 0, 1, 0, 111.2, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := haversineKM(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if diff := got - tc.wantKM; diff < -tc.tolerance || diff > tc.tolerance {
				t.Errorf("distance = %.2f km, want %.2f ± %.2f", got, tc.wantKM, tc.tolerance)
			}
		})
	}
}

func TestListForChallengeAuthorization(t *testing.T) {
	f := newFixture(t)
	creator := createUser(t, f.db, "teacher", model.Teacher)
	reviewer := createUser(t, f.db, "reviewer", model.NGO)
	student := createUser(t, f.db, "student", model.Student)
	challenge := f.createChallenge(t, creator.ID, basicChallengeRequest())

	if _, err := f.participation.Join(student.ID, challenge.ID); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := f.submission.Submit(student.ID, challenge.ID, SubmissionRequest{SubmissionText: "done"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.submission.ListForChallenge(challenge.ID, creator.ID); err != nil {
		t.Errorf("creator should list submissions: %v", err)
	}
	if _, err := f.submission.ListForChallenge(challenge.ID, reviewer.ID); err != nil {
		t.Errorf("reviewer role should list submissions: %v", err)
	}
	if _, err := f.submission.ListForChallenge(challenge.ID, student.ID); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("student should be denied, got %v", err)
	}

	mine, err := f.submission.ListMine(student.ID, challenge.ID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected one own submission, got %d", len(mine))
	}
}
