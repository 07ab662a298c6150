package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Chats     *ChatHandler
	Providers *ProviderHandler
	View      *ViewHandler
	Notifier  *Notifier
}

// NewRouter creates and configures a new chi router with all the application's routes.
// requestTimeout bounds the JSON routes; zero disables it.
func NewRouter(h Handlers, requestTimeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Liveness probe for whatever supervises the process.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// JSON routes get a deadline; a send waits on a remote model, which is
		// the slowest call here.
		r.Group(func(r chi.Router) {
			if requestTimeout > 0 {
				r.Use(middleware.Timeout(requestTimeout))
			}

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", h.Chats.ListChats)
				r.Post("/", h.Chats.CreateChat)
				r.Delete("/", h.Chats.ClearAllChats)
				r.Post("/delete", h.Chats.DeleteChats)
				r.Get("/current", h.Chats.GetCurrentChat)
				r.Put("/current", h.Chats.SelectChat)

				r.Route("/{chatID}", func(r chi.Router) {
					r.Get("/", h.Chats.GetChat)
					r.Delete("/", h.Chats.DeleteChat)
					r.Post("/clone", h.Chats.CloneChat)
					r.Post("/pin", h.Chats.TogglePin)
					r.Post("/archive", h.Chats.ToggleArchive)
					r.Put("/title", h.Chats.UpdateChatTitle)
					r.Put("/provider", h.Chats.UpdateChatProvider)
					r.Put("/project", h.Chats.MoveChat)
					r.Get("/export", h.Chats.ExportChat)
					r.Post("/messages", h.Chats.AddMessage)
					r.Delete("/messages", h.Chats.ClearMessages)
					r.Put("/messages/{messageID}", h.Chats.EditMessage)
					r.Delete("/messages/{messageID}", h.Chats.DeleteMessage)
				})
			})

			r.Post("/send", h.Chats.Send)
			r.Get("/project", h.Chats.GetProject)
			r.Put("/project", h.Chats.SelectProject)
			r.Get("/export", h.Chats.ExportAllChats)
			r.Post("/import", h.Chats.ImportChats)
			r.Get("/stats", h.Chats.GetStats)

			r.Route("/providers", func(r chi.Router) {
				r.Get("/", h.Providers.ListProviders)
				r.Post("/", h.Providers.CreateCustom)
				r.Get("/templates", h.Providers.ListTemplates)
				r.Post("/templates", h.Providers.CreateFromTemplate)
				r.Get("/active", h.Providers.GetActive)
				r.Put("/active", h.Providers.SetActive)

				r.Route("/{providerID}", func(r chi.Router) {
					r.Get("/", h.Providers.GetProvider)
					r.Patch("/", h.Providers.UpdateProvider)
					r.Delete("/", h.Providers.DeleteProvider)
					r.Post("/test", h.Providers.TestProvider)
					r.Get("/models", h.Providers.ListModels)
					r.Put("/default-model", h.Providers.SetDefaultModel)
				})
			})

			r.Put("/view", h.View.UpdateView)
		})

		// The event stream holds its connection open, so it must NOT have a timeout.
		r.Group(func(r chi.Router) {
			r.Get("/events", h.Notifier.HandleEvents)
		})
	})

	return r
}
