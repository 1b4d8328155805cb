// Package guard decide si la identidad actual puede ver una vista protegida.
// Es una función pura del estado de sesión y de los roles que exige la vista;
// la capa HTTP y el cliente de consola la proyectan a sus superficies.
package guard

import "github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"

// Vistas lógicas de la aplicación.
const (
	RouteHome               = "/"
	RouteLogin              = "/login"
	RoutePrices             = "/prices"
	RouteAdminDashboard     = "/admin/dashboard"
	RouteAuditorTasks       = "/auditor/tasks"
	RouteContributorCollect = "/contributor/collect"
)

// Action resultado de la evaluación.
type Action int

const (
	// Allow renderizar la vista pedida.
	Allow Action = iota
	// Redirect navegar a Decision.Target sin mostrar error.
	Redirect
)

// Decision resultado de Decide.
type Decision struct {
	Action Action
	Target string // destino de navegación cuando Action == Redirect
}

// DefaultLanding devuelve la vista de inicio del rol. Rol desconocido va al home.
func DefaultLanding(role string) string {
	switch role {
	case entity.RoleAdmin:
		return RouteAdminDashboard
	case entity.RoleAuditor:
		return RouteAuditorTasks
	case entity.RoleAlimentador:
		return RouteContributorCollect
	default:
		return RouteHome
	}
}

// Decide evalúa el acceso: sin autenticar redirige a login; autenticado con rol
// fuera del conjunto requerido redirige a la vista de inicio de SU rol (no a la
// del rol requerido); conjunto vacío = cualquier usuario autenticado. Sin
// efectos secundarios: se evalúa en cada navegación.
func Decide(authenticated bool, role string, required []string) Decision {
	if !authenticated {
		return Decision{Action: Redirect, Target: RouteLogin}
	}
	if len(required) == 0 {
		return Decision{Action: Allow}
	}
	for _, r := range required {
		if r == role {
			return Decision{Action: Allow}
		}
	}
	return Decision{Action: Redirect, Target: DefaultLanding(role)}
}
