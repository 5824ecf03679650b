package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mangrove-registry/lib/blobstore"
	"github.com/mangrove-registry/models"
	"github.com/mangrove-registry/services"
	"github.com/mangrove-registry/testutil"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	auth   *services.AuthService
	fx     *testutil.Fixtures
	blobs  *blobstore.LocalStore
}

type testUser struct {
	models.User
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testutil.SetupTestDB(t)
	blobs, err := blobstore.NewLocalStore(t.TempDir(), "project_docs")
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	clock := services.MonotonicClock(testutil.StepClock(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), time.Second))
	audit := services.NewAuditService(db, clock)
	documents := services.NewDocumentService(db, audit, clock)
	auth := services.NewAuthService(db, "test-secret", time.Hour)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Dependencies{
		DB:             db,
		Auth:           auth,
		Projects:       services.NewProjectService(db, documents, audit, clock),
		Lifecycle:      services.NewLifecycleService(db, audit, clock),
		Documents:      documents,
		Audit:          audit,
		Queries:        services.NewQueryService(db),
		Blobs:          blobs,
		MaxUploadBytes: 1 << 20,
		Logger:         zap.NewNop(),
	})

	return &testServer{t: t, router: router, auth: auth, fx: testutil.NewFixtures(t, db), blobs: blobs}
}

func (s *testServer) user(email string, role models.Role) testUser {
	s.t.Helper()
	u := s.fx.CreateUser(context.Background(), email, role)
	token, _, err := s.auth.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		s.t.Fatalf("GenerateToken: %v", err)
	}
	return testUser{User: u, token: token}
}

func (s *testServer) do(method, path string, as *testUser, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, as)
}

func (s *testServer) send(req *http.Request, as *testUser) *httptest.ResponseRecorder {
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+as.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) upload(projectID string, as *testUser, docType, filename, content string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if docType != "" {
		mw.WriteField("doc_type", docType)
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			s.t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+projectID+"/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.send(req, as)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d; body %s", w.Code, want, w.Body.String())
	}
}

type projectEnvelope struct {
	Status  string `json:"status"`
	Project struct {
		ID     string `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
	} `json:"project"`
}

type listEnvelope struct {
	Projects []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"projects"`
	Count int `json:"count"`
}

type errorEnvelope struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Field         string `json:"field"`
	CurrentStatus string `json:"currentStatus"`
}

func newProjectBody(title string) map[string]any {
	return map[string]any{
		"title":         title,
		"location":      "Sundarbans",
		"species":       "Rhizophora",
		"seedlingCount": 100,
		"latitude":      21.95,
		"longitude":     89.18,
	}
}
