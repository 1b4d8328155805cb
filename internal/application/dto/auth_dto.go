package dto

import "time"

// RegisterRequest entrada para registro: crea la identidad, no el perfil.
// Role es opcional; sin rol el perfil se aprovisiona como alimentador.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
}

// RegisterResponse salida del registro. La cuenta queda pendiente de
// confirmación por el canal externo antes del primer login.
type RegisterResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ConfirmRequest entrada para confirmar una cuenta con el token enviado fuera de banda.
type ConfirmRequest struct {
	Token string `json:"token"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse salida con token JWT, perfil y la vista de inicio del rol.
type LoginResponse struct {
	Token    string       `json:"token"`
	User     UserResponse `json:"user"`
	Redirect string       `json:"redirect"`
}

// UserResponse salida de un perfil.
type UserResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse listado de perfiles.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// UpdateUserRequest cambios parciales sobre un perfil (admin).
type UpdateUserRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role"`
}
