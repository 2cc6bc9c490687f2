package dto

import "time"

// AnswerRequest is one question/answer pair in a submission.
type AnswerRequest struct {
	Pergunta     string `json:"pergunta"`
	Resposta     string `json:"resposta"`
	TipoPergunta string `json:"tipo_pergunta"`
}

// SubmitFormRequest payload for POST /formulario/responder.
type SubmitFormRequest struct {
	IDFormulario int64           `json:"id_formulario" validate:"required,gt=0"`
	Respostas    []AnswerRequest `json:"respostas"`
}

// SubmitFormResponse confirms a stored submission.
type SubmitFormResponse struct {
	Status       string    `json:"status"`
	Mensagem     string    `json:"mensagem"`
	IDFormulario int64     `json:"id_formulario"`
	IDUsuario    int64     `json:"id_usuario"`
	Respondido   time.Time `json:"respondido"`
}

// AnsweredFormsResponse lists form ids the caller completed.
type AnsweredFormsResponse struct {
	FormulariosRespondidos []int64 `json:"formularios_respondidos"`
}

// AnswerResponse is a stored answer row.
type AnswerResponse struct {
	ID           int64     `json:"id"`
	IDHash       string    `json:"id_hash"`
	IDFormulario int64     `json:"id_formulario"`
	IDUsuario    int64     `json:"id_usuario"`
	Pergunta     string    `json:"pergunta"`
	TipoPergunta string    `json:"tipo_pergunta"`
	Resposta     string    `json:"resposta"`
	CriadoEm     time.Time `json:"criado_em"`
}

// AnswersResponse lists every stored answer.
type AnswersResponse struct {
	Respostas []AnswerResponse `json:"respostas"`
}
