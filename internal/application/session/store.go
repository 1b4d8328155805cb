// Package session implementa el almacén de sesión del proceso: un único
// dueño del estado "quién está logueado", sincronizado con el proveedor de
// identidad externo e inyectable en los consumidores (sin singletons).
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/repository"
	"github.com/jhoicas/PrecoMonitor-api/pkg/logger"
)

// Snapshot estado publicado a los consumidores. Valor inmutable: cada
// publicación reemplaza el anterior (last-write-wins, ambos leen la misma
// fuente autoritativa).
type Snapshot struct {
	CurrentUser   *entity.User
	Authenticated bool
	// Loading es true desde el arranque hasta que termina el primer chequeo
	// de sesión; los consumidores no deben renderizar UI condicionada por rol
	// mientras esté activo.
	Loading bool
}

// Store coordina el estado de sesión. Escritor único: solo sus propios
// handlers (login/logout/notificación) mutan el snapshot; los consumidores
// leen vía Snapshot() o Subscribe().
type Store struct {
	provider Provider
	users    repository.UserRepository
	cache    Cache
	log      *logger.Logger

	mu   sync.Mutex
	snap Snapshot
	// gen crece con cada notificación; un fetch de perfil lanzado por la
	// notificación N descarta su resultado si llegó la N+1 antes de aplicar.
	gen         uint64
	subs        map[int]func(Snapshot)
	nextSubID   int
	unsubscribe func()
}

// New construye el Store. Loading arranca en true hasta el primer chequeo.
func New(provider Provider, users repository.UserRepository, cache Cache, log *logger.Logger) *Store {
	return &Store{
		provider: provider,
		users:    users,
		cache:    cache,
		log:      log,
		snap:     Snapshot{Loading: true},
		subs:     make(map[int]func(Snapshot)),
	}
}

// Start publica el usuario cacheado de forma provisional, se suscribe a los
// cambios del proveedor y resuelve el chequeo inicial de sesión. El cache
// nunca es autoritativo: el resultado del proveedor lo reemplaza siempre.
func (s *Store) Start(ctx context.Context) {
	if s.cache != nil {
		if cached := s.cache.Load(); cached != nil {
			s.publish(Snapshot{CurrentUser: cached, Authenticated: true, Loading: true})
		}
	}

	s.unsubscribe = s.provider.OnChange(s.handleChange)

	sess, err := s.provider.GetSession(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("sesión: chequeo inicial falló")
		s.handleChange(EventSignedOut, nil)
		return
	}
	if sess == nil {
		s.handleChange(EventSignedOut, nil)
		return
	}
	s.handleChange(EventSignedIn, sess)
}

// Close cancela la suscripción al proveedor.
func (s *Store) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Snapshot devuelve el estado actual.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Subscribe registra un consumidor; recibe de inmediato el snapshot vigente y
// luego cada publicación. Devuelve la función de baja.
func (s *Store) Subscribe(fn func(Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	snap := s.snap
	s.mu.Unlock()

	fn(snap)
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login delega la verificación de credenciales al proveedor. No puebla el
// usuario directamente: el perfil llega por la notificación de cambio de
// sesión. Nunca lanza pánico; credenciales inválidas o error del proveedor
// devuelven false y quedan logueados para la notificación al usuario.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	if _, err := s.provider.SignIn(ctx, email, password); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("sesión: login falló")
		return false
	}
	return true
}

// Register crea la identidad con su metadata de rol. En éxito la cuenta queda
// pendiente de confirmación fuera de banda antes del primer login.
func (s *Store) Register(ctx context.Context, email, password string, meta Metadata) bool {
	if err := s.provider.SignUp(ctx, email, password, meta); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("sesión: registro falló")
		return false
	}
	return true
}

// Logout limpia el estado local y pide al proveedor invalidar la sesión.
// Siempre tiene éxito localmente aunque la llamada remota falle.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.gen++ // descarta cualquier fetch de perfil en vuelo
	s.mu.Unlock()

	s.publish(Snapshot{})
	if s.cache != nil {
		if err := s.cache.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("sesión: no se pudo limpiar el cache local")
		}
	}
	if err := s.provider.SignOut(ctx); err != nil {
		s.log.Warn().Err(err).Msg("sesión: sign-out remoto falló (ignorado)")
	}
}

// handleChange procesa una notificación del proveedor: busca el perfil
// autoritativo por el id de identidad y publica. El contador de generación
// garantiza que un resultado tardío de una notificación superada se descarte.
func (s *Store) handleChange(event Event, sess *Session) {
	s.mu.Lock()
	s.gen++
	g := s.gen
	s.mu.Unlock()

	if sess == nil {
		s.apply(g, nil)
		return
	}

	user, err := s.users.GetByID(sess.IdentityID)
	if err != nil {
		s.log.Error().Err(err).Str("identity_id", sess.IdentityID).Msg("sesión: fetch de perfil falló")
		s.apply(g, nil)
		return
	}
	if user == nil {
		// Aprovisionamiento autocurativo: identidad recién registrada sin
		// perfil todavía. No es un error; se crea el perfil por defecto.
		user = defaultProfile(sess)
		if err := s.users.Create(user); err != nil {
			s.log.Error().Err(err).Str("identity_id", sess.IdentityID).Msg("sesión: aprovisionar perfil falló")
			s.apply(g, nil)
			return
		}
		s.log.Info().Str("user_id", user.ID).Msg("sesión: perfil por defecto aprovisionado")
	}
	s.apply(g, user)
}

// apply publica el resultado de la generación g salvo que haya sido superada.
func (s *Store) apply(g uint64, user *entity.User) {
	s.mu.Lock()
	if g != s.gen {
		s.mu.Unlock()
		s.log.Debug().Uint64("gen", g).Msg("sesión: resultado de generación superada descartado")
		return
	}
	s.snap = Snapshot{CurrentUser: user, Authenticated: user != nil, Loading: false}
	snap := s.snap
	subs := s.snapshotSubs()
	s.mu.Unlock()

	if s.cache != nil {
		var err error
		if user != nil {
			err = s.cache.Save(user)
		} else {
			err = s.cache.Clear()
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("sesión: cache local no actualizado")
		}
	}
	for _, fn := range subs {
		fn(snap)
	}
}

// publish reemplaza el snapshot sin pasar por el contador (logout y estado
// provisional del cache).
func (s *Store) publish(snap Snapshot) {
	s.mu.Lock()
	s.snap = snap
	subs := s.snapshotSubs()
	s.mu.Unlock()
	for _, fn := range subs {
		fn(snap)
	}
}

// snapshotSubs copia los subscriptores; llamar con mu tomado.
func (s *Store) snapshotSubs() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

// defaultProfile construye el perfil por defecto de una identidad sin perfil:
// rol alimentador salvo que la sesión no traiga más datos.
func defaultProfile(sess *Session) *entity.User {
	now := time.Now()
	id := sess.IdentityID
	if id == "" {
		id = uuid.New().String()
	}
	name := sess.Email
	return &entity.User{
		ID:        id,
		Email:     sess.Email,
		Name:      name,
		Role:      entity.RoleAlimentador,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
