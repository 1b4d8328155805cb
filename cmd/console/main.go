// Cliente de consola: una sesión viva contra los mismos casos de uso de la
// API, con el almacén de sesión y el guard de vistas. Útil para operar sin
// navegador y para ver el flujo login -> vista de inicio -> navegación.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/PrecoMonitor-api/internal/application/auth"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/guard"
	"github.com/jhoicas/PrecoMonitor-api/internal/application/session"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/identity"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/localcache"
	"github.com/jhoicas/PrecoMonitor-api/internal/infrastructure/postgres"
	"github.com/jhoicas/PrecoMonitor-api/pkg/config"
	"github.com/jhoicas/PrecoMonitor-api/pkg/logger"
)

// rolesRequired roles exigidos por cada vista protegida. Vacío = basta con
// estar autenticado; la consulta pública de precios no requiere sesión.
var rolesRequired = map[string][]string{
	guard.RouteAdminDashboard:     {"admin"},
	guard.RouteAuditorTasks:       {"auditor"},
	guard.RouteContributorCollect: {"alimentador"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "warn"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	identityRepo := postgres.NewIdentityRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)

	authUC := auth.NewAuthUseCase(identityRepo, userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	provider := identity.NewLocalProvider(authUC)

	cacheDir, _ := os.UserCacheDir()
	cache := localcache.New(cacheDir + "/preco-monitor/session.json")

	store := session.New(provider, userRepo, cache, log)
	unsubscribe := store.Subscribe(func(snap session.Snapshot) {
		switch {
		case snap.Loading:
			fmt.Println("· verificando sesión...")
		case snap.Authenticated:
			fmt.Printf("· sesión: %s (%s)\n", snap.CurrentUser.Email, snap.CurrentUser.Role)
		default:
			fmt.Println("· sin sesión")
		}
	})
	defer unsubscribe()

	store.Start(ctx)
	defer store.Close()

	fmt.Println("comandos: login <email> <password> | register <email> <password> <nombre> | goto <vista> | whoami | logout | salir")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "login":
			if len(args) != 3 {
				fmt.Println("uso: login <email> <password>")
				continue
			}
			if !store.Login(ctx, args[1], args[2]) {
				fmt.Println("credenciales inválidas o cuenta sin confirmar")
				continue
			}
			// tras el login navegar a la vista de inicio del rol
			snap := store.Snapshot()
			if snap.Authenticated {
				fmt.Println("vista:", guard.DefaultLanding(snap.CurrentUser.Role))
			}
		case "register":
			if len(args) != 4 {
				fmt.Println("uso: register <email> <password> <nombre>")
				continue
			}
			if store.Register(ctx, args[1], args[2], session.Metadata{Name: args[3]}) {
				fmt.Println("cuenta creada; confirmar antes del primer login")
			} else {
				fmt.Println("no se pudo registrar")
			}
		case "goto":
			if len(args) != 2 {
				fmt.Println("uso: goto <vista>")
				continue
			}
			navigate(store, args[1])
		case "whoami":
			snap := store.Snapshot()
			if !snap.Authenticated {
				fmt.Println("sin sesión")
				continue
			}
			u := snap.CurrentUser
			fmt.Printf("%s  rol=%s  empresa=%s\n", u.Email, u.Role, u.CompanyID)
		case "logout":
			store.Logout(ctx)
		case "salir", "exit", "quit":
			return
		default:
			fmt.Println("comando desconocido:", args[0])
		}
	}
}

// navigate proyecta la decisión del guard a la consola: en redirect no se
// muestra error, solo la vista destino.
func navigate(store *session.Store, view string) {
	snap := store.Snapshot()
	role := ""
	if snap.CurrentUser != nil {
		role = snap.CurrentUser.Role
	}
	d := guard.Decide(snap.Authenticated, role, rolesRequired[view])
	if d.Action == guard.Redirect {
		fmt.Println("vista:", d.Target)
		return
	}
	fmt.Println("vista:", view)
}
