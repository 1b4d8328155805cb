package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/guard"
	"github.com/jhoicas/PrecoMonitor-api/internal/domain/entity"
)

// Sin autenticar siempre se redirige a login, sin importar rol ni requisitos.
func TestDecide_SinAutenticar_RedirigeALogin(t *testing.T) {
	for _, required := range [][]string{nil, {}, {entity.RoleAdmin}, {entity.RoleAuditor, entity.RoleAlimentador}} {
		d := guard.Decide(false, entity.RoleAdmin, required)
		assert.Equal(t, guard.Redirect, d.Action)
		assert.Equal(t, guard.RouteLogin, d.Target)
	}
}

// Conjunto requerido vacío: cualquier usuario autenticado pasa.
func TestDecide_SinRolesRequeridos_Permite(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleAuditor, entity.RoleAlimentador, "otro"} {
		d := guard.Decide(true, role, nil)
		assert.Equal(t, guard.Allow, d.Action, "rol %s debe pasar sin requisitos", role)
	}
}

// El usuario con rol dentro del conjunto requerido ve la vista.
func TestDecide_RolPermitido_Permite(t *testing.T) {
	d := guard.Decide(true, entity.RoleAuditor, []string{entity.RoleAdmin, entity.RoleAuditor})
	assert.Equal(t, guard.Allow, d.Action)
}

// Rol fuera del conjunto: redirige a la vista de inicio del rol del usuario,
// no a la de la vista pedida. Un admin que visita una ruta de auditor termina
// en /admin/dashboard.
func TestDecide_RolIncorrecto_RedirigeASuInicio(t *testing.T) {
	cases := []struct {
		role     string
		expected string
	}{
		{entity.RoleAdmin, guard.RouteAdminDashboard},
		{entity.RoleAuditor, guard.RouteAuditorTasks},
		{entity.RoleAlimentador, guard.RouteContributorCollect},
		{"desconocido", guard.RouteHome},
	}
	for _, tc := range cases {
		var required []string
		if tc.role == entity.RoleAuditor {
			required = []string{entity.RoleAdmin}
		} else {
			required = []string{entity.RoleAuditor}
		}
		d := guard.Decide(true, tc.role, required)
		assert.Equal(t, guard.Redirect, d.Action, "rol %s", tc.role)
		assert.Equal(t, tc.expected, d.Target, "el destino depende solo del rol del usuario")
	}
}

// El destino del redirect es función únicamente del rol: cualquier conjunto
// requerido que excluya al rol produce el mismo destino.
func TestDecide_DestinoSoloDependeDelRol(t *testing.T) {
	sets := [][]string{
		{entity.RoleAuditor},
		{entity.RoleAlimentador},
		{entity.RoleAuditor, entity.RoleAlimentador},
	}
	for _, required := range sets {
		d := guard.Decide(true, entity.RoleAdmin, required)
		assert.Equal(t, guard.Redirect, d.Action)
		assert.Equal(t, guard.RouteAdminDashboard, d.Target)
	}
}

func TestDefaultLanding(t *testing.T) {
	assert.Equal(t, guard.RouteAdminDashboard, guard.DefaultLanding(entity.RoleAdmin))
	assert.Equal(t, guard.RouteAuditorTasks, guard.DefaultLanding(entity.RoleAuditor))
	assert.Equal(t, guard.RouteContributorCollect, guard.DefaultLanding(entity.RoleAlimentador))
	assert.Equal(t, guard.RouteHome, guard.DefaultLanding(entity.RolePublic))
	assert.Equal(t, guard.RouteHome, guard.DefaultLanding(""))
}
