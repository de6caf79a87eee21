package routes

import (
	"log"

	"cv-forge/internal/config"
	"cv-forge/internal/database"
	"cv-forge/internal/delivery/http/handler"
	"cv-forge/internal/delivery/http/middleware"
	"cv-forge/internal/infrastructure/cache"
	"cv-forge/internal/latex"
	"cv-forge/internal/pkg/jwt"
	"cv-forge/internal/repository"
	"cv-forge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
}

// Register wires repositories, usecases, and handlers onto the app.
func Register(app *fiber.App, d Deps) error {
	if app == nil {
		return nil
	}

	handler.NewHealthHandler().RegisterRoutes(app)

	jwtSvc := jwt.NewHMACService(
		d.Config.JWT.AccessSecret,
		d.Config.JWT.RefreshSecret,
		d.Config.JWT.AccessExpiresIn,
		d.Config.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(d.DB)
	cvRepo := repository.NewPostgresCVRepository(d.DB)

	renderer, err := latex.NewRenderer()
	if err != nil {
		return err
	}
	compiler := latex.NewCompiler(d.Config.Export.CompilerBin, func(line string) {
		log.Printf("[xelatex] %s", line)
	})

	var cvCache usecase.CVCache
	if d.Cache != nil {
		cvCache = d.Cache
	}

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	cvUC := usecase.NewCVUsecase(cvRepo, cvCache)
	exportUC := usecase.NewExportUsecase(cvUC, renderer, compiler, d.Config.Export.WorkDir, d.Config.Export.CompileTimeout)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	handler.NewAuthHandler(authUC).RegisterRoutes(v1.Group("/auth"))

	protected := v1.Group("", authMw.Middleware())
	handler.NewCVHandler(cvUC).RegisterRoutes(protected)
	handler.NewExportHandler(exportUC).RegisterRoutes(protected)

	return nil
}
