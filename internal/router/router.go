package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	_ "apnifarm-api/docs"
	mem "apnifarm-api/internal/adapters/storage/memory"
	pg "apnifarm-api/internal/adapters/storage/postgres"
	"apnifarm-api/internal/domain/herd"
	"apnifarm-api/internal/domain/milk"
	"apnifarm-api/internal/domain/plans"
	"apnifarm-api/internal/domain/users"
	"apnifarm-api/internal/middleware"
	"apnifarm-api/internal/platform/logger"
	"apnifarm-api/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Política de status inicial por género (cero value => defaults).
	StatusPolicy herd.StatusPolicy

	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log := opts.Log
	if log == nil {
		log = logger.New(logger.Options{Level: logger.Info})
	}

	var (
		userRepo users.Repository
		planRepo plans.Repository
		herdRepo herd.Repository
		milkRepo milk.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("db open failed, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		planRepo = pg.NewPlansRepo(db)
		herdRepo = pg.NewHerdRepo(db)
		milkRepo = pg.NewMilkRepo(db)
	} else {
		store := mem.NewStore()
		userRepo = store.Users()
		planRepo = store.Plans()
		herdRepo = store.Herd()
		milkRepo = store.Milk()
	}

	// Services por módulo
	plansSvc := plans.NewService(planRepo)
	usersSvc := users.NewService(userRepo, plansSvc)
	herdSvc := herd.NewService(herdRepo, opts.StatusPolicy)
	milkSvc := milk.NewService(milkRepo, herdSvc)

	if err := plansSvc.EnsureSeeded(context.Background()); err != nil {
		log.Error("plan seed failed", map[string]any{"error": err.Error()})
	}

	farms := &farmResolver{users: usersSvc}

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	plans.RegisterRoutes(r, plansSvc)
	herd.RegisterRoutes(r, herdSvc, farms)
	milk.RegisterRoutes(r, milkSvc, farms)

	return r
}

// farmResolver adapta users.Service a los FarmResolver de herd/milk:
// el id del usuario local ES el id de la granja.
type farmResolver struct {
	users *users.Service
}

func (f *farmResolver) FarmID(ctx context.Context, subjectID string) (string, error) {
	u, err := f.users.GetBySubject(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}
