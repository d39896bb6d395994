package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"progresslog-api/internal/evidence"
	"progresslog-api/internal/services/health"
	"progresslog-api/internal/shared/server/middleware"
	"progresslog-api/internal/shared/telemetry"
	"progresslog-api/internal/shared/upload"
)

const uid = "123e4567-e89b-12d3-a456-426614174000"

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	intake, err := upload.New(upload.Options{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("upload intake: %v", err)
	}
	r := gin.New()
	r.Use(middleware.Errors(false))
	Register(r, Deps{
		Health: health.NewService(nil, "test"),
		Evidence: evidence.NewHandler(&evidence.Service{
			Repo:   evidence.NewMemoryRepo(),
			Files:  intake.Store(),
			Logger: telemetry.Nop(),
		}),
		Intake: intake,
	})
	return r
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Endpoint string `json:"endpoint"`
	} `json:"data"`
	Message string `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	StatusCode int `json:"statusCode"`
}

func do(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	var out envelope
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode: %v (%s)", method, target, err, resp.Body.String())
	}
	return resp, out
}

func TestStubRoutesAnswerComingSoon(t *testing.T) {
	r := newEngine(t)
	tests := []struct {
		method, target, body, message, endpoint string
	}{
		{http.MethodGet, "/api/v1/auth", "", "Authentication routes - Coming soon", "GET /api/v1/auth"},
		{http.MethodPost, "/api/v1/auth/login", `{"email":"a@b.io","password":"x"}`, "Authentication routes - Coming soon", "POST /api/v1/auth/login"},
		{http.MethodGet, "/api/v1/projects", "", "Project routes - Coming soon", "GET /api/v1/projects"},
		{http.MethodPost, "/api/v1/projects/" + uid + "/share", "", "Project routes - Coming soon", "POST /api/v1/projects/:projectId/share"},
		{http.MethodGet, "/api/v1/projects/" + uid + "/milestones", "", "Milestone routes - Coming soon", "GET /api/v1/projects/:projectId/milestones"},
		{http.MethodPost, "/api/v1/milestones/" + uid + "/submit", "", "Milestone routes - Coming soon", "POST /api/v1/milestones/:milestoneId/submit"},
		{http.MethodGet, "/api/v1/evidence/" + uid + "/thumbnail", "", "Evidence routes - Coming soon", "GET /api/v1/evidence/:evidenceId/thumbnail"},
		{http.MethodPost, "/api/v1/snapshots/" + uid + "/share", "", "Snapshot routes - Coming soon", "POST /api/v1/snapshots/:snapshotId/share"},
		{http.MethodGet, "/api/v1/users/me", "", "User routes - Coming soon", "GET /api/v1/users/me"},
		{http.MethodGet, "/api/v1/users/search", "", "User routes - Coming soon", "GET /api/v1/users/search"},
		{http.MethodPost, "/api/v1/auth/signup", `{"password":"abc12"}`, "Authentication routes - Coming soon", "POST /api/v1/auth/signup"},
		{http.MethodPost, "/api/v1/projects", `{}`, "Project routes - Coming soon", "POST /api/v1/projects"},
		{http.MethodGet, "/api/v1/projects?status=paused", "", "Project routes - Coming soon", "GET /api/v1/projects"},
		{http.MethodPost, "/api/v1/milestones/" + uid + "/disapprove", `{}`, "Milestone routes - Coming soon", "POST /api/v1/milestones/:milestoneId/disapprove"},
		{http.MethodGet, "/api/v1/reviews/statistics", "", "Review routes - Coming soon", "GET /api/v1/reviews/statistics"},
		{http.MethodPost, "/api/v1/admin/demo/reset", "", "Admin routes - Coming soon", "POST /api/v1/admin/demo/reset"},
		{http.MethodGet, "/public/snapshots/abc123", "", "Public routes - Coming soon", "GET /public/snapshots/:shareToken"},
	}
	for _, tt := range tests {
		resp, out := do(t, r, tt.method, tt.target, tt.body)
		if resp.Code != http.StatusOK || !out.Success || out.StatusCode != http.StatusOK {
			t.Fatalf("%s %s: unexpected response %d %+v", tt.method, tt.target, resp.Code, out)
		}
		if out.Message != tt.message || out.Data.Endpoint != tt.endpoint {
			t.Fatalf("%s %s: unexpected envelope %+v", tt.method, tt.target, out)
		}
	}
}

func TestRoutesValidateInput(t *testing.T) {
	r := newEngine(t)
	tests := []struct {
		method, target, body, message string
	}{
		{http.MethodGet, "/api/v1/projects/abc", "", "Invalid projectId: must be a valid UUID"},
		{http.MethodDelete, "/api/v1/snapshots/abc", "", "Invalid snapshotId: must be a valid UUID"},
		{http.MethodGet, "/api/v1/users/not-a-uuid", "", "Invalid userId: must be a valid UUID"},
		{http.MethodPost, "/api/v1/milestones/abc/disapprove", `{}`, "Invalid milestoneId: must be a valid UUID"},
		{http.MethodGet, "/api/v1/milestones/" + uid + "/evidence?limit=500", "", "Invalid query parameters"},
	}
	for _, tt := range tests {
		resp, out := do(t, r, tt.method, tt.target, tt.body)
		if resp.Code != http.StatusBadRequest || out.Error.Code != "VALIDATION_ERROR" || out.Error.Message != tt.message {
			t.Fatalf("%s %s: unexpected response %d %+v", tt.method, tt.target, resp.Code, out)
		}
	}
}

func TestHealthRoutes(t *testing.T) {
	r := newEngine(t)

	resp, out := do(t, r, http.MethodGet, "/api/v1/health", "")
	if resp.Code != http.StatusOK || !out.Success {
		t.Fatalf("unexpected health response %d %+v", resp.Code, out)
	}

	resp, out = do(t, r, http.MethodGet, "/api/v1/health/db", "")
	if resp.Code != http.StatusServiceUnavailable || out.Error.Code != "INTERNAL_ERROR" || out.Error.Message != "database disconnected" {
		t.Fatalf("unexpected db health response %d %+v", resp.Code, out)
	}
}
