package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"alcyxob/workout-journey/internal/config"
	"alcyxob/workout-journey/internal/domain"
	"alcyxob/workout-journey/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var handlerNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// stubSessionService returns canned values; the handler tests only
// exercise JSON shapes and status mapping.
type stubSessionService struct {
	logErr    error
	deleteErr error
}

func (s *stubSessionService) LogSession(_ context.Context, userID string, minutes *int, notes string, _ *time.Time) (*domain.Session, []domain.RewardUnlock, error) {
	if s.logErr != nil {
		return nil, nil, s.logErr
	}
	mins := 30
	if minutes != nil {
		mins = *minutes
	}
	session := &domain.Session{
		ID:      primitive.NewObjectID(),
		UserID:  userID,
		Date:    handlerNow,
		Minutes: mins,
		Notes:   notes,
	}
	unlocks := []domain.RewardUnlock{{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		RewardName: "massage",
		UnlockedAt: handlerNow,
	}}
	return session, unlocks, nil
}

func (s *stubSessionService) GetMetrics(_ context.Context, userID string, _ time.Time) (*service.Metrics, error) {
	return &service.Metrics{
		Sessions: []domain.Session{{
			ID:      primitive.NewObjectID(),
			UserID:  userID,
			Date:    handlerNow,
			Minutes: 30,
		}},
		Unlocks: []domain.RewardUnlock{{
			ID:         primitive.NewObjectID(),
			UserID:     userID,
			RewardName: "massage",
			UnlockedAt: handlerNow,
		}},
		CurrentDay:  10,
		WeeklyCount: 5,
	}, nil
}

func (s *stubSessionService) SetupSubject(_ context.Context) (*domain.User, error) {
	return &domain.User{ID: "user-mia", Name: "Mia", CreatedAt: handlerNow}, nil
}

func (s *stubSessionService) DeleteSession(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	if s.deleteErr != nil {
		return nil, s.deleteErr
	}
	return &domain.Session{ID: id, UserID: "user-mia", Date: handlerNow, Minutes: 30}, nil
}

func newTestRouter(stub *stubSessionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}, stub, "user-mia")
	return router
}

func TestLogSessionEndpoint(t *testing.T) {
	router := newTestRouter(&stubSessionService{})

	body := `{"minutes": 30, "notes": "morning run"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	for _, key := range []string{"session", "newUnlocks"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("response missing %q key", key)
		}
	}

	var sess map[string]any
	if err := json.Unmarshal(resp["session"], &sess); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	for _, key := range []string{"id", "userId", "date", "minutes", "notes"} {
		if _, ok := sess[key]; !ok {
			t.Errorf("session missing %q field", key)
		}
	}

	var unlocks []map[string]any
	if err := json.Unmarshal(resp["newUnlocks"], &unlocks); err != nil {
		t.Fatalf("unmarshal newUnlocks: %v", err)
	}
	if len(unlocks) != 1 {
		t.Fatalf("newUnlocks length = %d, want 1", len(unlocks))
	}
	for _, key := range []string{"id", "rewardName", "unlockedAt"} {
		if _, ok := unlocks[0][key]; !ok {
			t.Errorf("unlock missing %q field", key)
		}
	}
	if unlocks[0]["rewardName"] != "massage" {
		t.Errorf("rewardName = %v, want massage", unlocks[0]["rewardName"])
	}
}

func TestLogSessionEndpoint_BadBody(t *testing.T) {
	router := newTestRouter(&stubSessionService{})

	tests := []struct {
		name string
		body string
	}{
		{"negative minutes", `{"minutes": -5}`},
		{"malformed json", `{"minutes": `},
		{"wrong type", `{"minutes": "thirty"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestLogSessionEndpoint_ValidationErrorFromService(t *testing.T) {
	stub := &stubSessionService{logErr: domain.ErrValidation}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestGetMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&stubSessionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	for _, key := range []string{"sessions", "unlocks", "currentDay", "weeklyCount"} {
		if _, ok := resp[key]; !ok {
			t.Errorf("metrics missing %q key", key)
		}
	}
}

func TestSetupEndpoint(t *testing.T) {
	router := newTestRouter(&stubSessionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/setup", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var user map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &user); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	if user["id"] != "user-mia" {
		t.Errorf("subject id = %v, want user-mia", user["id"])
	}
}

func TestDeleteSessionEndpoint(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		router := newTestRouter(&stubSessionService{})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/sessions/not-an-id", nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("not found", func(t *testing.T) {
		router := newTestRouter(&stubSessionService{deleteErr: service.ErrSessionNotFound})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+primitive.NewObjectID().Hex(), nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
		}
	})

	t.Run("success", func(t *testing.T) {
		router := newTestRouter(&stubSessionService{})
		id := primitive.NewObjectID()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id.Hex(), nil)
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
		}
		var resp map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if _, ok := resp["session"]; !ok {
			t.Error("response missing session key")
		}
	})
}
