// Package identity adapta los casos de uso de autenticación al contrato
// session.Provider, para clientes que mantienen una sesión viva en memoria
// (el cliente de consola). Hace las veces del proveedor de identidad externo
// cuando todo corre en el mismo proceso.
package identity

import (
	"context"
	"sync"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/auth"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/dto"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/session"
)

var _ session.Provider = (*LocalProvider)(nil)

// LocalProvider implementación de session.Provider sobre AuthUseCase.
// Mantiene a lo sumo una sesión viva.
type LocalProvider struct {
	auth *auth.AuthUseCase

	mu        sync.Mutex
	current   *session.Session
	listeners map[int]func(session.Event, *session.Session)
	nextID    int
}

// NewLocalProvider construye el proveedor local.
func NewLocalProvider(authUC *auth.AuthUseCase) *LocalProvider {
	return &LocalProvider{
		auth:      authUC,
		listeners: make(map[int]func(session.Event, *session.Session)),
	}
}

// SignIn verifica credenciales vía el caso de uso de login y notifica a los
// listeners. El error del caso de uso se propaga sin traducir.
func (p *LocalProvider) SignIn(_ context.Context, email, password string) (*session.Session, error) {
	resp, err := p.auth.Login(dto.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	s := &session.Session{
		IdentityID: resp.User.ID,
		Email:      resp.User.Email,
		Token:      resp.Token,
	}
	p.mu.Lock()
	p.current = s
	p.mu.Unlock()
	p.emit(session.EventSignedIn, s)
	return s, nil
}

// SignUp registra una identidad nueva. No abre sesión: la cuenta queda
// pendiente de confirmación.
func (p *LocalProvider) SignUp(_ context.Context, email, password string, meta session.Metadata) error {
	_, err := p.auth.Register(dto.RegisterRequest{
		Email:     email,
		Password:  password,
		Name:      meta.Name,
		Role:      meta.Role,
		CompanyID: meta.CompanyID,
	})
	return err
}

// SignOut descarta la sesión viva y notifica.
func (p *LocalProvider) SignOut(_ context.Context) error {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
	p.emit(session.EventSignedOut, nil)
	return nil
}

// GetSession devuelve la sesión viva, o nil si no hay.
func (p *LocalProvider) GetSession(_ context.Context) (*session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

// OnChange registra un listener; devuelve la función de baja.
func (p *LocalProvider) OnChange(fn func(session.Event, *session.Session)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *LocalProvider) emit(ev session.Event, s *session.Session) {
	p.mu.Lock()
	fns := make([]func(session.Event, *session.Session), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev, s)
	}
}
