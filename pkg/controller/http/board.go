package http

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
	"github.com/stride-hq/stride/pkg/usecase"
)

type moveColumnRequest struct {
	Column string `json:"column"`
}

func (s *Server) moveColumn(w http.ResponseWriter, r *http.Request) {
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

	var req moveColumnRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	column, err := types.ParseBoardColumn(req.Column)
	if err != nil {
		handleError(w, r, goerr.Wrap(usecase.ErrValidation, err.Error()))
		return
	}

	actor := model.ActorFromContext(r.Context())
	moved, err := s.uc.Board.MoveColumn(r.Context(), iterationID, itemID, column, actor.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toWorkItemResponse(moved))
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	iterationID, err := urlParamInt64(r, "iterationID")
	if err != nil {
		handleError(w, r, err)
		return
	}

	board, err := s.uc.Board.GetBoard(r.Context(), iterationID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toBoardResponse(board))
}
