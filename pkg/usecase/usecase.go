package usecase

import (
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model/config"
)

type UseCases struct {
	repo           interfaces.Repository
	sink           interfaces.EventSink
	workflowConfig *config.WorkflowConfig

	Backlog   *BacklogUseCase
	Admission *AdmissionUseCase
	Iteration *IterationUseCase
	Board     *BoardUseCase
	Review    *ReviewUseCase
}

type Option func(*UseCases)

func WithEventSink(sink interfaces.EventSink) Option {
	return func(uc *UseCases) {
		uc.sink = sink
	}
}

func WithWorkflowConfig(cfg *config.WorkflowConfig) Option {
	return func(uc *UseCases) {
		uc.workflowConfig = cfg
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:           repo,
		workflowConfig: config.DefaultWorkflowConfig(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	emitter := newEventEmitter(uc.sink)
	uc.Admission = NewAdmissionUseCase(repo, emitter, uc.workflowConfig)
	uc.Backlog = NewBacklogUseCase(repo, emitter, uc.Admission)
	uc.Iteration = NewIterationUseCase(repo, emitter, uc.Admission)
	uc.Board = NewBoardUseCase(repo, emitter)
	uc.Review = NewReviewUseCase(repo, emitter)

	return uc
}
