package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elliotBraem/near-protocol-rewards/services/validation/common"
	"github.com/elliotBraem/near-protocol-rewards/services/validation/metrics"
	"github.com/elliotBraem/near-protocol-rewards/services/validation/storage"
	"github.com/elliotBraem/near-protocol-rewards/validator"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) (*server, Storage) {
	store, err := storage.NewSQLiteStorage(":memory:", 100, 10)
	require.NoError(t, err)

	crossValidator, err := validator.NewCrossSourceValidator(validator.ArgsCrossSourceValidator{})
	require.NoError(t, err)

	args := ArgsWebServer{
		ServiceKeyApi:  "test-secret",
		AuthUsername:   "admin",
		AuthPassword:   "password",
		ListenAddress:  ":0",
		Storage:        store,
		Validator:      crossValidator,
		Recorder:       metrics.NewPrometheusRecorder(),
		GeneralHandler: func(h http.Handler) http.Handler { return h },
	}

	serv, err := NewServer(args)
	require.NoError(t, err)

	return serv, store
}

func consistentPair() (validator.GitHubMetrics, validator.NearMetrics) {
	now := time.Now().UnixMilli()
	github := validator.GitHubMetrics{
		CollectionTimestamp: now,
		Commits:             validator.CommitMetrics{Count: 30, Authors: []string{"alice", "bob"}},
		PullRequests:        validator.PullRequestMetrics{Merged: 10, Authors: []string{"alice"}},
		Issues:              validator.IssueMetrics{Closed: 5, Participants: []string{"carol"}},
	}
	near := validator.NearMetrics{
		CollectionTimestamp: now,
		Transactions:        validator.TransactionMetrics{Count: 20, UniqueUsers: []string{"alice.near", "bob.near"}},
		ContractCalls:       validator.ContractCallMetrics{Count: 10, UniqueCallers: []string{"carol.near"}},
	}

	return github, near
}

func doRequest(serv *server, method string, url string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req, _ = http.NewRequest(method, url, bytes.NewBuffer(body))
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	serv.router.ServeHTTP(w, req)

	return w
}

func getValidToken(serv *server) string {
	loginBody := []byte(`{"username":"admin", "password":"password"}`)
	w := doRequest(serv, http.MethodPost, "/api/auth/login", loginBody, nil)

	var loginResp map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &loginResp)
	return loginResp["token"]
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestReportEndpoint(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	github, near := consistentPair()
	body, _ := json.Marshal(common.ReportPayload{
		Project: "near-rewards",
		GitHub:  github,
		Near:    near,
	})

	w := doRequest(serv, http.MethodPost, "/api/report", body, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(serv, http.MethodPost, "/api/report", body, map[string]string{"X-Api-Key": "test-secret"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"isValid":true`)

	snapshot, err := store.GetLatestSnapshot(context.Background(), "near-rewards")
	require.NoError(t, err)
	require.Equal(t, github, snapshot.GitHub)
	require.Equal(t, near, snapshot.Near)
}

func TestReportEndpoint_RejectedPayloads(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	apiKey := map[string]string{"X-Api-Key": "test-secret"}
	github, near := consistentPair()

	t.Run("bad json", func(t *testing.T) {
		w := doRequest(serv, http.MethodPost, "/api/report", []byte(`{"project": { bad format }}`), apiKey)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
	t.Run("missing project", func(t *testing.T) {
		body, _ := json.Marshal(common.ReportPayload{Project: "  ", GitHub: github, Near: near})
		w := doRequest(serv, http.MethodPost, "/api/report", body, apiKey)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "missing project")
	})
	t.Run("negative counter", func(t *testing.T) {
		broken := github
		broken.Commits.Count = -3
		body, _ := json.Marshal(common.ReportPayload{Project: "near-rewards", GitHub: broken, Near: near})
		w := doRequest(serv, http.MethodPost, "/api/report", body, apiKey)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid input")
	})

	projects, err := store.GetProjects(context.Background())
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestValidateEndpoint(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	apiKey := map[string]string{"X-Api-Key": "test-secret"}
	github, near := consistentPair()
	github.CollectionTimestamp -= 7 * time.Hour.Milliseconds()
	body, _ := json.Marshal(common.ValidatePayload{GitHub: github, Near: near})

	w := doRequest(serv, http.MethodPost, "/api/validate", body, apiKey)
	require.Equal(t, http.StatusOK, w.Code)

	result := &validator.ValidationResult{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), result))
	require.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	require.Equal(t, validator.CodeTimestampDrift, result.Errors[0].Code)
	require.Equal(t, "cross-validation", result.Metadata["source"])

	projects, err := store.GetProjects(context.Background())
	require.NoError(t, err)
	require.Empty(t, projects)

	w = doRequest(serv, http.MethodPost, "/api/validate", []byte(`{bad}`), apiKey)
	require.Equal(t, http.StatusBadRequest, w.Code)

	near.Transactions.Count = -1
	body, _ = json.Marshal(common.ValidatePayload{GitHub: github, Near: near})
	w = doRequest(serv, http.MethodPost, "/api/validate", body, apiKey)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndGetProjects(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	github, near := consistentPair()
	err := store.SaveSnapshot(context.Background(), "near-rewards", github, near, time.Now().Unix())
	require.NoError(t, err)

	token := getValidToken(serv)
	require.NotEmpty(t, token)

	w := doRequest(serv, http.MethodGet, "/api/projects", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	var projectsResp struct {
		Projects []common.ProjectSummary `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projectsResp))
	require.Len(t, projectsResp.Projects, 1)
	require.Equal(t, "near-rewards", projectsResp.Projects[0].Name)
	require.Equal(t, 1, projectsResp.Projects[0].NumSnapshots)
}

func TestGetValidation(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	github, near := consistentPair()
	near.Transactions.UniqueUsers = []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	err := store.SaveSnapshot(context.Background(), "near-rewards", github, near, time.Now().Unix())
	require.NoError(t, err)

	token := getValidToken(serv)

	w := doRequest(serv, http.MethodGet, "/api/projects/near-rewards/validation", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Project string                     `json:"project"`
		Result  validator.ValidationResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "near-rewards", resp.Project)
	require.True(t, resp.Result.IsValid)
	require.True(t, resp.Result.HasCode(validator.CodeUserCountDiscrepancy))

	w = doRequest(serv, http.MethodGet, "/api/projects/unknown/validation", nil, bearer(token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHistoryAndDelete(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	github, near := consistentPair()
	for i := 0; i < 3; i++ {
		github.Commits.Count = i
		err := store.SaveSnapshot(context.Background(), "near-rewards", github, near, int64(1000+i))
		require.NoError(t, err)
	}

	token := getValidToken(serv)

	w := doRequest(serv, http.MethodGet, "/api/projects/near-rewards/history", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Snapshots []common.Snapshot `json:"snapshots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Snapshots, 3)
	require.Equal(t, int64(1000), resp.Snapshots[0].RecordedAt)
	require.Equal(t, 2, resp.Snapshots[2].GitHub.Commits.Count)

	w = doRequest(serv, http.MethodDelete, "/api/projects/near-rewards", nil, bearer(token))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(serv, http.MethodGet, "/api/projects/near-rewards/history", nil, bearer(token))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	github, near := consistentPair()
	body, _ := json.Marshal(common.ReportPayload{Project: "near-rewards", GitHub: github, Near: near})
	w := doRequest(serv, http.MethodPost, "/api/report", body, map[string]string{"X-Api-Key": "test-secret"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(serv, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `crossval_validations_total{outcome="valid",project="near-rewards"} 1`)
}

func TestAuth_InvalidToken(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	w := doRequest(serv, http.MethodGet, "/api/projects", nil, bearer("not-a-valid-token"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	serv, store := setupTestServer(t)
	defer func() {
		_ = store.Close()
	}()

	w := doRequest(serv, http.MethodGet, "/api/unknown", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
