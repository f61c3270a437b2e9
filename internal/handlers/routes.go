package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"algoridigm/internal/metrics"
)

// SetupRoutes wires every HTTP route
func SetupRoutes(
	wsHandler *WebSocketHandler,
	staticHandler *StaticHandler,
	registrationHandler *RegistrationHandler,
	presentationHandler *PresentationHandler,
	logger *zap.Logger,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(recoveryMiddleware(logger))
	router.Use(loggingMiddleware(logger))

	// WebSocket endpoint
	router.HandleFunc("/ws", wsHandler.HandleWebSocket).Methods(http.MethodGet)

	// Registration API
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/hello", Hello).Methods(http.MethodGet)
	api.HandleFunc("/workshop-registration", registrationHandler.CreateRegistration).Methods(http.MethodPost)
	api.HandleFunc("/workshop-registrations", registrationHandler.ListRegistrations).Methods(http.MethodGet)

	// Presentation control API
	api.HandleFunc("/presentation", presentationHandler.GetState).Methods(http.MethodGet)
	api.HandleFunc("/presentation/slide", presentationHandler.GoToSlide).Methods(http.MethodPost)
	for _, name := range PresentationCommands {
		api.HandleFunc("/presentation/"+name, presentationHandler.Command(name)).Methods(http.MethodPost)
	}

	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	// Client pages
	router.HandleFunc("/", staticHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/contact", staticHandler.Contact).Methods(http.MethodGet)
	router.HandleFunc("/register", staticHandler.Contact).Methods(http.MethodGet)
	router.HandleFunc("/video", staticHandler.Video).Methods(http.MethodGet)

	// mux skips middleware for unmatched requests
	notFound := recoveryMiddleware(logger)(loggingMiddleware(logger)(http.HandlerFunc(staticHandler.NotFound)))
	router.NotFoundHandler = notFound

	return router
}
