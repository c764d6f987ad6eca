package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medical-cost-api/services"

	"github.com/gin-gonic/gin"
)

func TestRespondServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantGeneric bool
	}{
		{
			name:       "insufficient data is a 400 with detail",
			err:        fmt.Errorf("%w: need at least 20 rows, got 5", services.ErrInsufficientData),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "preparation error is a 400 with detail",
			err:        &services.PreparationError{Feature: "region", Reason: "unknown value"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:        "artifact unavailable is a generic 500",
			err:         fmt.Errorf("%w: model missing", services.ErrArtifactUnavailable),
			wantStatus:  http.StatusInternalServerError,
			wantGeneric: true,
		},
		{
			name:        "persistence failure is a generic 500",
			err:         fmt.Errorf("%w: commit failed", services.ErrPersistence),
			wantStatus:  http.StatusInternalServerError,
			wantGeneric: true,
		},
		{
			name:        "unknown error is a generic 500",
			err:         errors.New("something internal exploded"),
			wantStatus:  http.StatusInternalServerError,
			wantGeneric: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			respondServiceError(c, tt.err, "operation failed")

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if tt.wantGeneric {
				if body["error"] != "operation failed" {
					t.Errorf("error = %q, internal detail must not leak", body["error"])
				}
			} else if !strings.Contains(body["error"], tt.err.Error()) && body["error"] != tt.err.Error() {
				t.Errorf("error = %q, want client detail %q", body["error"], tt.err.Error())
			}
		})
	}
}
