package session

import (
	"context"

	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
)

// Event tipo de notificación de cambio de sesión del proveedor.
type Event string

const (
	EventSignedIn       Event = "signed_in"
	EventSignedOut      Event = "signed_out"
	EventTokenRefreshed Event = "token_refreshed"
)

// Session sesión viva en el proveedor de identidad. IdentityID es la clave
// con la que se busca el perfil autoritativo.
type Session struct {
	IdentityID string
	Email      string
	Token      string
}

// Metadata datos de registro que acompañan al sign-up.
type Metadata struct {
	Name      string
	Role      string
	CompanyID string
}

// Provider es el contrato con el proveedor externo de identidad/sesión.
// La verificación de credenciales es del proveedor; el Store solo reacciona
// a sus notificaciones.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string, meta Metadata) error
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	// OnChange registra un listener de cambios de sesión; devuelve la función
	// para darse de baja. Los eventos llegan en el orden del proveedor.
	OnChange(fn func(event Event, s *Session)) (unsubscribe func())
}

// Cache blob local del último usuario conocido. Solo sirve para evitar un
// parpadeo de UI sin autenticar mientras resuelve el chequeo remoto; nunca es
// autoritativo.
type Cache interface {
	Load() *entity.User
	Save(user *entity.User) error
	Clear() error
}
