package dto

import "time"

// UserRegisterRequest payload for POST /usuario/cadastrar.
type UserRegisterRequest struct {
	Nome           string  `json:"nome" validate:"required"`
	Telefone       string  `json:"telefone" validate:"required"`
	DataNascimento string  `json:"data_nascimento" validate:"required"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Bairro         *string `json:"bairro"`
	Cidade         *string `json:"cidade"`
	Estado         *string `json:"estado"`
	Cep            *string `json:"cep"`
	Rua            *string `json:"rua"`
}

// UserLoginRequest payload for POST /login.
type UserLoginRequest struct {
	Telefone       string `json:"telefone" validate:"required"`
	DataNascimento string `json:"data_nascimento" validate:"required"`
}

// UserProfile is the user representation shared by the user endpoints.
// Which optional parts are filled depends on the endpoint.
type UserProfile struct {
	ID             int64   `json:"id"`
	Nome           string  `json:"nome"`
	Telefone       string  `json:"telefone"`
	DataNascimento string  `json:"data_nascimento"`
	Email          *string `json:"email,omitempty"`
	Bairro         *string `json:"bairro"`
	Cidade         *string `json:"cidade"`
	Estado         *string `json:"estado"`
	Cep            *string `json:"cep,omitempty"`
	Rua            *string `json:"rua,omitempty"`
	Level          *int    `json:"level,omitempty"`
	CriadoEm       string  `json:"criado_em,omitempty"`
	AtualizadoEm   string  `json:"atualizado_em,omitempty"`
}

// RegisterResponse body for a created user.
type RegisterResponse struct {
	Mensagem string      `json:"mensagem"`
	Usuario  UserProfile `json:"usuario"`
}

// LoginResponse body for a successful login.
type LoginResponse struct {
	Mensagem string      `json:"mensagem"`
	Token    string      `json:"token"`
	ExpiraEm time.Time   `json:"expira_em"`
	Usuario  UserProfile `json:"usuario"`
}

// ProfileResponse body for GET /perfil.
type ProfileResponse struct {
	Usuario UserProfile `json:"usuario"`
}
