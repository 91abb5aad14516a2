package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/stride-hq/stride/pkg/controller/http"
	"github.com/stride-hq/stride/pkg/repository/memory"
	"github.com/stride-hq/stride/pkg/usecase"
)

func newTestServer(t *testing.T) *controller.Server {
	t.Helper()
	repo := memory.New()
	return controller.New(usecase.New(repo))
}

func doRequest(t *testing.T, srv *controller.Server, method, path string, body any, actorID int64, roles string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		gt.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if actorID != 0 {
		req.Header.Set("X-Actor-ID", fmt.Sprintf("%d", actorID))
	}
	if roles != "" {
		req.Header.Set("X-Actor-Roles", roles)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestActorMiddleware(t *testing.T) {
	srv := newTestServer(t)

	t.Run("missing identity is rejected", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/projects/1/backlog", nil, 0, "")
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("malformed identity is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/projects/1/backlog", nil)
		req.Header.Set("X-Actor-ID", "bob")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("valid identity passes", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/projects/1/backlog", nil, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestWorkItemEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create and fetch", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/projects/1/items", map[string]any{
			"title": "Implement login",
			"type":  "STORY",
		}, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var created struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		gt.Value(t, created.Status).Equal("BACKLOG")

		rec = doRequest(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), nil, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("invalid type is a bad request", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, "/api/projects/1/items", map[string]any{
			"title": "x",
			"type":  "CHORE",
		}, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unknown item is not found", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/items/999", nil, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestAdmissionEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// fixture: one backlog item, one planned iteration
	rec := doRequest(t, srv, http.MethodPost, "/api/projects/1/items", map[string]any{
		"title": "story", "type": "STORY", "point_estimate": 5,
	}, 1, "DEVELOPER")
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	var item struct {
		ID int64 `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))

	rec = doRequest(t, srv, http.MethodPost, "/api/projects/1/iterations", map[string]any{
		"name": "Sprint 1", "goal": "Ship checkout", "length_weeks": 2,
	}, 1, "SCRUM_MASTER")
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	var iteration struct {
		ID int64 `json:"id"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &iteration))

	base := fmt.Sprintf("/api/iterations/%d/items/%d", iteration.ID, item.ID)

	t.Run("request and approve", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, base+"/admission", map[string]any{
			"approver_set": []int64{200},
		}, 100, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		// duplicate request conflicts
		rec = doRequest(t, srv, http.MethodPost, base+"/admission", map[string]any{
			"approver_set": []int64{200},
		}, 100, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusConflict)

		// approver sees the pending record
		rec = doRequest(t, srv, http.MethodGet, "/api/approvals/pending", nil, 200, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		var pending []map[string]any
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
		gt.Array(t, pending).Length(1)

		// quorum of one: approval commits the membership
		rec = doRequest(t, srv, http.MethodPost, base+"/decision", map[string]any{
			"approve": true,
		}, 200, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		var updated struct {
			Status string `json:"status"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		gt.Value(t, updated.Status).Equal("SPRINT_READY")

		// double response conflicts
		rec = doRequest(t, srv, http.MethodPost, base+"/decision", map[string]any{
			"approve": true,
		}, 200, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusConflict)
	})

	t.Run("iteration lifecycle over HTTP", func(t *testing.T) {
		lifecycle := fmt.Sprintf("/api/iterations/%d", iteration.ID)

		rec := doRequest(t, srv, http.MethodPost, lifecycle+"/start", nil, 1, "SCRUM_MASTER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doRequest(t, srv, http.MethodPost, base+"/move", map[string]any{
			"column": "DONE",
		}, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doRequest(t, srv, http.MethodGet, lifecycle+"/board", nil, 1, "DEVELOPER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		rec = doRequest(t, srv, http.MethodPost, lifecycle+"/end", nil, 1, "SCRUM_MASTER")
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		// ending twice is a conflict
		rec = doRequest(t, srv, http.MethodPost, lifecycle+"/end", nil, 1, "SCRUM_MASTER")
		gt.Value(t, rec.Code).Equal(http.StatusConflict)
	})
}
