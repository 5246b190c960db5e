package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/leadshield/scanner-platform/internal/artifact"
	"github.com/leadshield/scanner-platform/internal/assessment"
	"github.com/leadshield/scanner-platform/internal/infra/config"
	"github.com/leadshield/scanner-platform/internal/repository/sqlite"
	httproutes "github.com/leadshield/scanner-platform/internal/transport/http/routes"
	"github.com/leadshield/scanner-platform/internal/usecase"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	cfg := &config.AppConfig{
		App: config.AppSettings{
			Env:     "test",
			BaseURL: "https://platform.test",
		},
		Session: config.SessionSettings{TTL: time.Hour},
	}

	central, err := sqlite.OpenCentral(context.Background(), filepath.Join(root, "central.db"))
	if err != nil {
		t.Fatalf("open central: %v", err)
	}
	t.Cleanup(func() { central.Close() })

	users := sqlite.NewUserRepository(central)
	clients := sqlite.NewClientRepository(central)
	scanners := sqlite.NewScannerRepository(central)
	sessionRepo := sqlite.NewSessionRepository(central)
	scanHistory := sqlite.NewScanHistoryRepository(central)

	tenants := sqlite.NewTenantStore(filepath.Join(root, "tenants"))
	t.Cleanup(func() { tenants.Close() })

	generator, err := artifact.NewGenerator(root, cfg.App.BaseURL+httproutes.APIPrefix)
	if err != nil {
		t.Fatalf("init generator: %v", err)
	}

	sessions := usecase.NewSessionAuthority(users, sessionRepo, cfg.Session.TTL)
	registration := usecase.NewRegistrationService(users, nil)
	pipeline := usecase.NewScanIngestionPipeline(scanners, clients, tenants, scanHistory, assessment.NewSimulatedEngine(), nil, nil, nil)
	provisioning := usecase.NewProvisioningService(clients, scanners, tenants, generator, nil, nil)
	dashboard := usecase.NewDashboardAggregator(tenants, scanHistory, nil)

	return httproutes.Register(httproutes.Dependencies{
		Config:    cfg,
		Logger:    zap.NewNop(),
		Clients:   clients,
		Generator: generator,
		Database:  central,
		Services: httproutes.ServiceSet{
			Sessions:     sessions,
			Registration: registration,
			Pipeline:     pipeline,
			Provisioning: provisioning,
			Dashboard:    dashboard,
		},
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestReadinessEndpoint(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/readyz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "acme",
		"email":    "owner@acme.test",
		"password": "Sup3r!SecurePass#7890",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": "acme",
		"password":   "Sup3r!SecurePass#7890",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var login struct {
		Token string `json:"token"`
	}
	decodeJSON(t, w, &login)
	if login.Token == "" {
		t.Fatal("expected session token")
	}
	return login.Token
}

func TestFullProvisionAndScanFlow(t *testing.T) {
	r := newTestEngine(t)
	token := registerAndLogin(t, r)

	// Provision a scanner.
	w := doJSON(t, r, http.MethodPost, "/api/v1/customize", token, map[string]any{
		"businessName":   "Acme Security",
		"businessDomain": "acme.test",
		"primaryColor":   "#112233",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("customize: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var deployment struct {
		ScannerUID string `json:"scannerUid"`
		EmbedURL   string `json:"embedUrl"`
	}
	decodeJSON(t, w, &deployment)
	if deployment.ScannerUID == "" {
		t.Fatal("expected scanner uid in deployment")
	}

	// The embed URL handed back by customize resolves on this very server:
	// strip the external base and the remaining path must be routable.
	embedPath := strings.TrimPrefix(deployment.EmbedURL, "https://platform.test")
	if embedPath == deployment.EmbedURL {
		t.Fatalf("embed URL %q not under the configured base URL", deployment.EmbedURL)
	}
	w = doJSON(t, r, http.MethodGet, embedPath, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("embed via returned URL %q: expected 200, got %d", deployment.EmbedURL, w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Acme Security")) {
		t.Fatal("expected business name in embed markup")
	}

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/scanner/%s/styles.css", deployment.ScannerUID), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("styles: expected 200, got %d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("#112233")) {
		t.Fatal("expected branding color in stylesheet")
	}

	// A visitor submits a scan.
	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/scanner/%s/scan", deployment.ScannerUID), "", map[string]any{
		"targetUrl":    "https://visitor.example.com",
		"contactEmail": "lead@example.com",
		"contactName":  "Jordan Lee",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("scan: expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var accepted struct {
		Status string `json:"status"`
		ScanID string `json:"scanId"`
	}
	decodeJSON(t, w, &accepted)
	if accepted.Status != "accepted" || accepted.ScanID == "" {
		t.Fatalf("unexpected scan response: %+v", accepted)
	}

	// The scan shows up on the owner's dashboard.
	w = doJSON(t, r, http.MethodGet, "/api/v1/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view struct {
		Stats struct {
			TotalScans  int `json:"totalScans"`
			UniqueLeads int `json:"uniqueLeads"`
		} `json:"stats"`
	}
	decodeJSON(t, w, &view)
	if view.Stats.TotalScans != 1 {
		t.Fatalf("expected 1 scan on dashboard, got %d", view.Stats.TotalScans)
	}
	if view.Stats.UniqueLeads != 1 {
		t.Fatalf("expected 1 unique lead, got %d", view.Stats.UniqueLeads)
	}
}

func TestScanSubmissionValidation(t *testing.T) {
	r := newTestEngine(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/customize", token, map[string]any{
		"businessName":   "Acme Security",
		"businessDomain": "acme.test",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("customize: expected 200, got %d", w.Code)
	}
	var deployment struct {
		ScannerUID string `json:"scannerUid"`
	}
	decodeJSON(t, w, &deployment)

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/scanner/%s/scan", deployment.ScannerUID), "", map[string]any{
		"contactEmail": "lead@example.com",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing target, got %d", w.Code)
	}

	var errResp struct {
		Status string `json:"status"`
	}
	decodeJSON(t, w, &errResp)
	if errResp.Status != "error" {
		t.Fatalf("expected widget error shape, got %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/scanner/scanner_missing0/scan", "", map[string]any{
		"targetUrl":    "https://visitor.example.com",
		"contactEmail": "lead@example.com",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown scanner, got %d", w.Code)
	}
}

func TestOwnerScanEndpoint(t *testing.T) {
	r := newTestEngine(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/customize", token, map[string]any{
		"businessName":   "Acme Security",
		"businessDomain": "acme.test",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("customize: expected 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/scan", token, map[string]any{
		"targetUrl":    "https://acme.test",
		"contactEmail": "owner@acme.test",
	})
	if w.Code != http.StatusAccepted {
		t.Fatalf("owner scan: expected 202, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/scan", "", map[string]any{
		"targetUrl":    "https://acme.test",
		"contactEmail": "owner@acme.test",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestDashboardRequiresSession(t *testing.T) {
	r := newTestEngine(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/dashboard", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", w.Code)
	}
}

func TestChangePassword(t *testing.T) {
	r := newTestEngine(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"current_password": "wrong-password",
		"new_password":     "An0ther!SecurePass#7890",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"current_password": "Sup3r!SecurePass#7890",
		"new_password":     "An0ther!SecurePass#7890",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("change password: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"identifier": "acme",
		"password":   "An0ther!SecurePass#7890",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	r := newTestEngine(t)
	token := registerAndLogin(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/dashboard", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}
