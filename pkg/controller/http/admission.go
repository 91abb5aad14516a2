package http

import (
	"net/http"

	"github.com/stride-hq/stride/pkg/domain/model"
)

type requestAdmissionRequest struct {
	ApproverSet []int64 `json:"approver_set"`
}

func (s *Server) requestAdmission(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req requestAdmissionRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	updated, err := s.uc.Admission.RequestAdmission(r.Context(), itemID, iterationID, req.ApproverSet, actor.ID, actor.Roles)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(updated))
}

type recordDecisionRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
}

func (s *Server) recordDecision(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req recordDecisionRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	updated, err := s.uc.Admission.RecordDecision(r.Context(), itemID, iterationID, actor.ID, req.Approve, req.Reason)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(updated))
}

func (s *Server) listApprovals(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	records, err := s.uc.Admission.ApprovalsForItem(r.Context(), itemID, iterationID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toApprovalListResponse(records))
}

func (s *Server) pendingApprovals(w http.ResponseWriter, r *http.Request) {
	actor := model.ActorFromContext(r.Context())

	records, err := s.uc.Admission.PendingApprovalsFor(r.Context(), actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toApprovalListResponse(records))
}
