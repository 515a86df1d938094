package util

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
	}{
		{Validationf("target value must be at least 1"), http.StatusBadRequest},
		{fmt.Errorf("%w: role may not do that", ErrPermissionDenied), http.StatusForbidden},
		{NotFoundf("challenge %d", 7), http.StatusNotFound},
		{fmt.Errorf("%w: already joined", ErrAlreadyJoined), http.StatusConflict},
		{fmt.Errorf("%w: settled", ErrAlreadyVerified), http.StatusConflict},
		{ErrEmailRegistered, http.StatusConflict},
		{fmt.Errorf("%w: ended", ErrChallengeInactive), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: join first", ErrNotParticipating), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: photo needed", ErrMissingRequiredProof), http.StatusUnprocessableEntity},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{WrapInfra(fmt.Errorf("connection refused")), http.StatusInternalServerError},
		{fmt.Errorf("some unclassified failure"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			RespondError(c, tc.err)

			if w.Code != tc.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}
}
