package http

import (
	"net/http"
	"time"

	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/usecase"
)

type createIterationRequest struct {
	Name        string     `json:"name"`
	Goal        string     `json:"goal"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	LengthWeeks int        `json:"length_weeks"`
	Capacity    int        `json:"capacity"`
}

func (s *Server) createIteration(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req createIterationRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	input := &usecase.CreateIterationInput{
		ProjectID:   projectID,
		Name:        req.Name,
		Goal:        req.Goal,
		LengthWeeks: req.LengthWeeks,
		Capacity:    req.Capacity,
	}
	if req.StartDate != nil {
		input.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		input.EndDate = *req.EndDate
	}

	actor := model.ActorFromContext(r.Context())
	created, err := s.uc.Iteration.CreateIteration(r.Context(), input, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toIterationResponse(created))
}

func (s *Server) getIteration(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	iteration, err := s.uc.Iteration.GetIteration(r.Context(), iterationID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toIterationResponse(iteration))
}

func (s *Server) listIterations(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	iterations, err := s.uc.Iteration.ListIterations(r.Context(), projectID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	out := make([]*iterationResponse, len(iterations))
	for i, iteration := range iterations {
		out[i] = toIterationResponse(iteration)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) activeIteration(w http.ResponseWriter, r *http.Request) {
	projectID, err := urlParamInt64(r, "projectID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	iteration, err := s.uc.Iteration.ActiveIteration(r.Context(), projectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if iteration == nil {
		http.Error(w, "no active iteration", http.StatusNotFound)
		return
	}

	writeJSON(w, r, http.StatusOK, toIterationResponse(iteration))
}

func (s *Server) startIteration(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	started, err := s.uc.Iteration.Start(r.Context(), iterationID, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toIterationResponse(started))
}

func (s *Server) endIteration(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	ended, err := s.uc.Iteration.End(r.Context(), iterationID, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toIterationResponse(ended))
}

func (s *Server) cancelIteration(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	actor := model.ActorFromContext(r.Context())
	cancelled, err := s.uc.Iteration.Cancel(r.Context(), iterationID, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toIterationResponse(cancelled))
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
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

	if err := s.uc.Iteration.RemoveItem(r.Context(), iterationID, itemID); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
