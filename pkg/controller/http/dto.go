package http

import (
	"time"

	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/usecase"
)

type workItemResponse struct {
	ID                 int64      `json:"id"`
	ProjectID          int64      `json:"project_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	Type               string     `json:"type"`
	PointEstimate      *int       `json:"point_estimate,omitempty"`
	Priority           int        `json:"priority"`
	Position           int        `json:"position"`
	Status             string     `json:"status"`
	AcceptanceCriteria string     `json:"acceptance_criteria,omitempty"`
	CreatedBy          int64      `json:"created_by"`
	ReviewedBy         *int64     `json:"reviewed_by,omitempty"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	BoardColumn        *string    `json:"board_column,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toWorkItemResponse(item *model.WorkItem) *workItemResponse {
	resp := &workItemResponse{
		ID:                 item.ID,
		ProjectID:          item.ProjectID,
		Title:              item.Title,
		Description:        item.Description,
		Type:               item.Type.String(),
		PointEstimate:      item.PointEstimate,
		Priority:           item.Priority,
		Position:           item.Position,
		Status:             item.Status.String(),
		AcceptanceCriteria: item.AcceptanceCriteria,
		CreatedBy:          item.CreatedBy,
		ReviewedBy:         item.ReviewedBy,
		ReviewedAt:         item.ReviewedAt,
		RejectionReason:    item.RejectionReason,
		CreatedAt:          item.CreatedAt,
		UpdatedAt:          item.UpdatedAt,
	}
	if item.BoardColumn != nil {
		column := item.BoardColumn.String()
		resp.BoardColumn = &column
	}
	return resp
}

func toWorkItemListResponse(items []*model.WorkItem) []*workItemResponse {
	out := make([]*workItemResponse, len(items))
	for i, item := range items {
		out[i] = toWorkItemResponse(item)
	}
	return out
}

type iterationResponse struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Name        string     `json:"name"`
	Goal        string     `json:"goal,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	LengthWeeks int        `json:"length_weeks"`
	Status      string     `json:"status"`
	Capacity    int        `json:"capacity"`
	CreatedBy   int64      `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
}

func toIterationResponse(iteration *model.Iteration) *iterationResponse {
	resp := &iterationResponse{
		ID:          iteration.ID,
		ProjectID:   iteration.ProjectID,
		Name:        iteration.Name,
		Goal:        iteration.Goal,
		LengthWeeks: iteration.LengthWeeks,
		Status:      iteration.Status.String(),
		Capacity:    iteration.Capacity,
		CreatedBy:   iteration.CreatedBy,
		CreatedAt:   iteration.CreatedAt,
		StartedAt:   iteration.StartedAt,
		EndedAt:     iteration.EndedAt,
	}
	if !iteration.StartDate.IsZero() {
		startDate := iteration.StartDate
		resp.StartDate = &startDate
	}
	if !iteration.EndDate.IsZero() {
		endDate := iteration.EndDate
		resp.EndDate = &endDate
	}
	return resp
}

type approvalResponse struct {
	ItemID          int64      `json:"item_id"`
	IterationID     int64      `json:"iteration_id"`
	ApproverID      int64      `json:"approver_id"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	RequestedAt     time.Time  `json:"requested_at"`
	RespondedAt     *time.Time `json:"responded_at,omitempty"`
}

func toApprovalListResponse(records []*model.ApprovalRecord) []*approvalResponse {
	out := make([]*approvalResponse, len(records))
	for i, rec := range records {
		out[i] = &approvalResponse{
			ItemID:          rec.ItemID,
			IterationID:     rec.IterationID,
			ApproverID:      rec.ApproverID,
			Status:          rec.Status.String(),
			RejectionReason: rec.RejectionReason,
			RequestedAt:     rec.RequestedAt,
			RespondedAt:     rec.RespondedAt,
		}
	}
	return out
}

type boardResponse struct {
	IterationID int64                          `json:"iteration_id"`
	Columns     map[string][]*workItemResponse `json:"columns"`
}

func toBoardResponse(board *usecase.Board) *boardResponse {
	resp := &boardResponse{
		IterationID: board.IterationID,
		Columns:     make(map[string][]*workItemResponse, len(board.Columns)),
	}
	for column, items := range board.Columns {
		resp.Columns[column.String()] = toWorkItemListResponse(items)
	}
	return resp
}
