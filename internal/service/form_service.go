package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/pic-backend/internal/domain"
	"github.com/spec-kit/pic-backend/internal/events"
	"github.com/spec-kit/pic-backend/internal/repository"
	apperrors "github.com/spec-kit/pic-backend/pkg/util/errorutil"
)

const (
	MsgSubmissionInFlight = "Já existe um envio em andamento para este formulário"
	MsgNoAnswers          = "Ao menos uma resposta é obrigatória"
	MsgMissingQuestion    = "Campo obrigatório ausente: pergunta"
)

// AnswerInput is one submitted question/answer pair.
type AnswerInput struct {
	Question     string
	Answer       string
	QuestionType string
}

// SubmitInput describes a form submission.
type SubmitInput struct {
	FormID  int64
	Answers []AnswerInput
}

// FormService runs the form-response workflow.
type FormService struct {
	forms      repository.FormRepository
	responses  repository.FormResponseRepository
	answers    repository.AnswerRepository
	locker     SubmissionLocker
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// FormDependencies bundles collaborators for the form service.
type FormDependencies struct {
	FormRepo         repository.FormRepository
	FormResponseRepo repository.FormResponseRepository
	AnswerRepo       repository.AnswerRepository
	Locker           SubmissionLocker
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewFormService constructs the service.
func NewFormService(deps FormDependencies) *FormService {
	locker := deps.Locker
	if locker == nil {
		locker = NoopLocker{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormService{
		forms:      deps.FormRepo,
		responses:  deps.FormResponseRepo,
		answers:    deps.AnswerRepo,
		locker:     locker,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Submit records the caller's answers to a form exactly once. A repeated
// submission is refused and never overwrites earlier answers.
func (s *FormService) Submit(ctx context.Context, userID int64, input SubmitInput) (*domain.FormResponse, error) {
	answers, err := validateAnswers(input)
	if err != nil {
		return nil, err
	}

	if _, err := s.forms.GetByID(ctx, input.FormID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Formulário", map[string]any{"id_formulario": input.FormID})
		}
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, userID, input.FormID)
	if err != nil {
		if errors.Is(err, ErrSubmissionLocked) {
			return nil, apperrors.NewConflict(apperrors.CodeSubmissionInFlight, MsgSubmissionInFlight, nil)
		}
		return nil, err
	}
	defer release()

	answered, err := s.responses.Exists(ctx, userID, input.FormID)
	if err != nil {
		return nil, err
	}
	if answered {
		return nil, alreadyAnswered(userID, input.FormID)
	}

	for i := range answers {
		answers[i].PublicID = uuid.NewString()
		answers[i].FormID = input.FormID
		answers[i].UserID = userID
	}
	response := &domain.FormResponse{
		FormID:     input.FormID,
		UserID:     userID,
		AnsweredAt: s.now(),
		Status:     domain.FormResponseStatusCompleted,
	}
	if err := s.responses.Submit(ctx, response, answers); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyResponded):
			return nil, alreadyAnswered(userID, input.FormID)
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, apperrors.NewNotFound("Usuário", map[string]any{"id": userID})
		case errors.Is(err, repository.ErrFormNotFound):
			return nil, apperrors.NewNotFound("Formulário", map[string]any{"id_formulario": input.FormID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventFormAnswered,
		UserID: userID,
		Payload: events.FormAnsweredPayload{
			FormID:      response.FormID,
			ResponseID:  response.ID,
			AnswerCount: len(answers),
			Status:      response.Status,
		},
	})
	return response, nil
}

// ListAnsweredForms returns ids of forms the user completed.
func (s *FormService) ListAnsweredForms(ctx context.Context, userID int64) ([]int64, error) {
	ids, err := s.responses.ListFormIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// ListAllAnswers returns every stored answer regardless of caller.
func (s *FormService) ListAllAnswers(ctx context.Context) ([]domain.Answer, error) {
	return s.answers.ListAll(ctx)
}

func (s *FormService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func validateAnswers(input SubmitInput) ([]domain.Answer, error) {
	if input.FormID <= 0 {
		return nil, apperrors.NewValidationError("Campo obrigatório ausente: id_formulario", map[string]any{"campo": "id_formulario"})
	}
	if len(input.Answers) == 0 {
		return nil, apperrors.NewValidationError(MsgNoAnswers, map[string]any{"campo": "respostas"})
	}
	answers := make([]domain.Answer, 0, len(input.Answers))
	for i, in := range input.Answers {
		question := strings.TrimSpace(in.Question)
		if question == "" {
			return nil, apperrors.NewValidationError(MsgMissingQuestion, map[string]any{"indice": i})
		}
		questionType := strings.TrimSpace(in.QuestionType)
		if questionType == "" {
			questionType = domain.QuestionTypeText
		}
		answers = append(answers, domain.Answer{
			Question:     question,
			QuestionType: questionType,
			Answer:       in.Answer,
		})
	}
	return answers, nil
}

func alreadyAnswered(userID, formID int64) error {
	return apperrors.NewBadRequest(
		apperrors.CodeFormAlreadyAnswered,
		fmt.Sprintf("Usuário %d já respondeu o formulário %d", userID, formID),
		map[string]any{"id_formulario": formID, "id_usuario": userID},
	)
}
