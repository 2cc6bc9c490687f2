package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pic-backend/internal/api/dto"
	"github.com/spec-kit/pic-backend/internal/domain"
	"github.com/spec-kit/pic-backend/internal/service"
)

// UsersHandler exposes registration, login and profile endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /usuario/cadastrar.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, err := h.auth.RegisterUser(c.UserContext(), service.RegisterInput{
		Name:         req.Nome,
		Phone:        req.Telefone,
		Birthdate:    req.DataNascimento,
		Email:        req.Email,
		Neighborhood: req.Bairro,
		City:         req.Cidade,
		State:        req.Estado,
		PostalCode:   req.Cep,
		Street:       req.Rua,
	})
	if err != nil {
		return err
	}

	profile := baseProfile(user)
	profile.Email = user.Email
	profile.Cep = user.PostalCode
	profile.Rua = user.Street
	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Mensagem: "Usuário registrado com sucesso",
		Usuario:  profile,
	})
}

// Login handles POST /login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	user, token, err := h.auth.LoginUser(c.UserContext(), req.Telefone, req.DataNascimento)
	if err != nil {
		return err
	}

	profile := baseProfile(user)
	profile.Level = &user.Level
	return c.JSON(dto.LoginResponse{
		Mensagem: "Login realizado com sucesso",
		Token:    token.Value,
		ExpiraEm: token.ExpiresAt.UTC(),
		Usuario:  profile,
	})
}

// Profile handles GET /perfil.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.auth.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}

	profile := baseProfile(user)
	profile.Email = user.Email
	profile.Cep = user.PostalCode
	profile.Rua = user.Street
	profile.Level = &user.Level
	profile.CriadoEm = user.CreatedAt.UTC().Format(time.RFC3339)
	profile.AtualizadoEm = user.UpdatedAt.UTC().Format(time.RFC3339)
	return c.JSON(dto.ProfileResponse{Usuario: profile})
}

func baseProfile(user *domain.User) dto.UserProfile {
	return dto.UserProfile{
		ID:             user.ID,
		Nome:           user.Name,
		Telefone:       user.Phone,
		DataNascimento: user.Birthdate.Format(domain.DateLayout),
		Bairro:         user.Neighborhood,
		Cidade:         user.City,
		Estado:         user.State,
	}
}
