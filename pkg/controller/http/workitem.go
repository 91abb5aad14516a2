package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
	"github.com/stride-hq/stride/pkg/usecase"
)

type createWorkItemRequest struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Type               string  `json:"type"`
	PointEstimate      *int    `json:"point_estimate"`
	Priority           int     `json:"priority"`
	AcceptanceCriteria string  `json:"acceptance_criteria"`
	IterationID        int64   `json:"iteration_id"`
	ApproverSet        []int64 `json:"approver_set"`
}

func (s *Server) createWorkItem(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req createWorkItemRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	itemType, err := types.ParseItemType(req.Type)
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrValidation, err.Error()))
		return
	}

	actor := model.ActorFromContext(r.Context())
	created, err := s.uc.Backlog.CreateWorkItem(r.Context(), &usecase.CreateWorkItemInput{
		ProjectID:          projectID,
		Title:              req.Title,
		Description:        req.Description,
		Type:               itemType,
		PointEstimate:      req.PointEstimate,
		Priority:           req.Priority,
		AcceptanceCriteria: req.AcceptanceCriteria,
		IterationID:        req.IterationID,
		ApproverSet:        req.ApproverSet,
	}, actor.ID, actor.Roles)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toWorkItemResponse(created))
}

func (s *Server) getWorkItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	item, err := s.uc.Backlog.GetWorkItem(r.Context(), itemID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(item))
}

type updateWorkItemRequest struct {
	Title              *string `json:"title"`
	Description        *string `json:"description"`
	Type               *string `json:"type"`
	PointEstimate      *int    `json:"point_estimate"`
	Priority           *int    `json:"priority"`
	AcceptanceCriteria *string `json:"acceptance_criteria"`
}

func (s *Server) updateWorkItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req updateWorkItemRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input := &usecase.UpdateWorkItemInput{
		Title:              req.Title,
		Description:        req.Description,
		PointEstimate:      req.PointEstimate,
		Priority:           req.Priority,
		AcceptanceCriteria: req.AcceptanceCriteria,
	}
	if req.Type != nil {
		itemType, err := types.ParseItemType(*req.Type)
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, err.Error()))
			return
		}
		input.Type = &itemType
	}

	actor := model.ActorFromContext(r.Context())
	updated, err := s.uc.Backlog.UpdateWorkItem(r.Context(), itemID, input, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(updated))
}

func (s *Server) deleteWorkItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Backlog.DeleteWorkItem(r.Context(), itemID); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getBacklog(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	items, err := s.uc.Backlog.GetBacklog(r.Context(), projectID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemListResponse(items))
}

type reorderBacklogRequest struct {
	OrderedIDs []int64 `json:"ordered_ids"`
}

func (s *Server) reorderBacklog(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req reorderBacklogRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.uc.Backlog.ReorderBacklog(r.Context(), projectID, req.OrderedIDs); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) acceptItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	accepted, err := s.uc.Review.Accept(r.Context(), itemID, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(accepted))
}

type rejectItemRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) rejectItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := urlParamInt64(r, "itemID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req rejectItemRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	rejected, err := s.uc.Review.Reject(r.Context(), itemID, actor.ID, req.Reason)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(rejected))
}
