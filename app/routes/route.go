package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/rakadenta/wholesale-catalog/app/configs"
	"github.com/rakadenta/wholesale-catalog/app/handlers"
	adminhandlers "github.com/rakadenta/wholesale-catalog/app/handlers/admin"
	"github.com/rakadenta/wholesale-catalog/app/middlewares"
	"github.com/rakadenta/wholesale-catalog/app/repositories"
	"github.com/rakadenta/wholesale-catalog/app/services"
	"github.com/rakadenta/wholesale-catalog/app/storage"
	"github.com/rakadenta/wholesale-catalog/app/utils/renderer"
	"github.com/rakadenta/wholesale-catalog/app/utils/sessions"
	"gorm.io/gorm"
)

// Deps is the explicitly constructed service context: every handler gets
// its collaborators from here instead of reaching for globals.
type Deps struct {
	DB      *gorm.DB
	Env     configs.ENV
	Keys    *configs.SessionKeys
	Blob    storage.Storage
	Catalog *services.CatalogService
}

func NewRouter(deps Deps) (http.Handler, error) {
	productRepo := repositories.NewProductRepository(deps.DB)
	userRepo := repositories.NewUserRepository(deps.DB)
	configRepo := repositories.NewConfigRepository(deps.DB)

	catalog := deps.Catalog
	if catalog == nil {
		var err error
		catalog, err = services.NewCatalogService(services.NewPollWatcher(productRepo, 5*time.Second))
		if err != nil {
			return nil, err
		}
	}

	sessionStore := sessions.NewCookieSessionStore(deps.Keys.AuthKey, deps.Keys.EncKey)
	render := renderer.New()

	identity := services.NewIdentityService(userRepo)
	authz := services.NewAuthorizationService(configRepo)
	searchSvc := services.NewSearchService(productRepo)
	selectionSvc := services.NewSelectionService(catalog)
	assist := services.NewAssistClient(deps.Env.AssistBaseURL, deps.Env.AssistAPIKey)
	mailer := services.NewMailer(services.MailConfig{
		Host:     deps.Env.EmailHost,
		Port:     deps.Env.EmailPort,
		Username: deps.Env.EmailUsername,
		Password: deps.Env.EmailPassword,
		From:     deps.Env.EmailFrom,
	})
	interestSvc := services.NewInterestService(userRepo, assist, mailer, deps.Env.SupplierEmail)
	adminSvc := services.NewProductAdminService(productRepo, deps.Blob, assist)

	feedHandler := handlers.NewFeedHandler(catalog, searchSvc, selectionSvc, sessionStore, render)
	selectionHandler := handlers.NewSelectionHandler(catalog, selectionSvc, sessionStore, render)
	interestHandler := handlers.NewInterestHandler(interestSvc, selectionSvc, sessionStore, render)
	authHandler := handlers.NewAuthHandler(identity, authz, sessionStore, render)
	productAdminHandler := adminhandlers.NewProductAdminHandler(adminSvc, catalog, render)

	router := mux.NewRouter()
	router.Use(middlewares.CurrentUserMiddleware(sessionStore, identity, authz))

	router.HandleFunc("/api/feed", feedHandler.Feed).Methods("GET")
	router.HandleFunc("/api/feed/search", feedHandler.CommitSearch).Methods("POST")
	router.HandleFunc("/api/feed/advance", feedHandler.Advance).Methods("POST")

	router.HandleFunc("/api/selection", selectionHandler.Summary).Methods("GET")
	router.HandleFunc("/api/selection/toggle", selectionHandler.Toggle).Methods("POST")

	router.HandleFunc("/api/interest", interestHandler.Submit).Methods("POST")

	router.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	router.HandleFunc("/api/logout", authHandler.Logout).Methods("POST")
	router.HandleFunc("/api/state", authHandler.State).Methods("GET")
	router.HandleFunc("/api/state", authHandler.SetState).Methods("POST")

	adminRouter := router.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(middlewares.AdminAuthMiddleware)
	adminRouter.HandleFunc("/products", productAdminHandler.List).Methods("GET")
	adminRouter.HandleFunc("/products", productAdminHandler.Open).Methods("POST")
	adminRouter.HandleFunc("/products/{id}", productAdminHandler.OpenExisting).Methods("GET")
	adminRouter.HandleFunc("/products/{id}", productAdminHandler.Save).Methods("PUT")
	adminRouter.HandleFunc("/products/{id}", productAdminHandler.Cancel).Methods("DELETE")
	adminRouter.HandleFunc("/products/{id}/images", productAdminHandler.AddImage).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/images/reorder", productAdminHandler.ReorderImages).Methods("POST")
	adminRouter.HandleFunc("/products/{id}/images/{index}", productAdminHandler.DeleteImage).Methods("DELETE")

	csrfMiddleware := csrf.Protect(
		deps.Keys.AuthKey,
		csrf.Secure(deps.Env.APP_ENV == "production"),
		csrf.Path("/"),
	)

	return csrfMiddleware(router), nil
}
