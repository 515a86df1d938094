package model

import (
	"testing"
	"time"
)

func TestChallengeActiveAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name      string
		challenge Challenge
		want      bool
	}{
		{"active no end date", Challenge{IsActive: true}, true},
		{"active future end", Challenge{IsActive: true, EndDate: &future}, true},
		{"active past end", Challenge{IsActive: true, EndDate: &past}, false},
		{"end date exactly now", Challenge{IsActive: true, EndDate: &now}, false},
		{"inactive", Challenge{IsActive: false}, false},
		{"inactive future end", Challenge{IsActive: false, EndDate: &future}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.challenge.ActiveAt(now); got != tc.want {
				t.Errorf("ActiveAt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestChallengeHasGeofence(t *testing.T) {
	lat, lng, radius := 52.0, 5.0, 1.0

	full := Challenge{GeofenceLat: &lat, GeofenceLng: &lng, GeofenceRadiusKM: &radius}
	if !full.HasGeofence() {
		t.Error("all three fields set should report a geofence")
	}

	partial := Challenge{GeofenceLat: &lat, GeofenceLng: &lng}
	if partial.HasGeofence() {
		t.Error("missing radius should not report a geofence")
	}

	var none Challenge
	if none.HasGeofence() {
		t.Error("empty challenge should not report a geofence")
	}
}
