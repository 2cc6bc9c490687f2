package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pic-backend/internal/api/dto"
	"github.com/spec-kit/pic-backend/internal/service"
)

// FormsHandler manages the form-response endpoints.
type FormsHandler struct {
	forms *service.FormService
}

// NewFormsHandler constructs handler.
func NewFormsHandler(formService *service.FormService) *FormsHandler {
	return &FormsHandler{forms: formService}
}

// Submit handles POST /formulario/responder.
func (h *FormsHandler) Submit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.SubmitFormRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	input := service.SubmitInput{
		FormID:  req.IDFormulario,
		Answers: make([]service.AnswerInput, 0, len(req.Respostas)),
	}
	for _, answer := range req.Respostas {
		input.Answers = append(input.Answers, service.AnswerInput{
			Question:     answer.Pergunta,
			Answer:       answer.Resposta,
			QuestionType: answer.TipoPergunta,
		})
	}

	response, err := h.forms.Submit(c.UserContext(), userID, input)
	if err != nil {
		return err
	}
	return c.JSON(dto.SubmitFormResponse{
		Status:       "success",
		Mensagem:     fmt.Sprintf("Respostas do formulário %d registradas com sucesso para o usuário %d", response.FormID, response.UserID),
		IDFormulario: response.FormID,
		IDUsuario:    response.UserID,
		Respondido:   response.AnsweredAt,
	})
}

// AnsweredForms handles GET /usuario/formularios_respondidos.
func (h *FormsHandler) AnsweredForms(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	ids, err := h.forms.ListAnsweredForms(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.AnsweredFormsResponse{FormulariosRespondidos: ids})
}

// ListAnswers handles GET /formulario/respostas/all.
func (h *FormsHandler) ListAnswers(c *fiber.Ctx) error {
	answers, err := h.forms.ListAllAnswers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AnswerResponse, 0, len(answers))
	for _, answer := range answers {
		items = append(items, dto.AnswerResponse{
			ID:           answer.ID,
			IDHash:       answer.PublicID,
			IDFormulario: answer.FormID,
			IDUsuario:    answer.UserID,
			Pergunta:     answer.Question,
			TipoPergunta: answer.QuestionType,
			Resposta:     answer.Answer,
			CriadoEm:     answer.CreatedAt,
		})
	}
	return c.JSON(dto.AnswersResponse{Respostas: items})
}
