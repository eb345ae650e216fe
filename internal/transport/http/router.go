package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduforum/discussions-service/internal/service"
	"github.com/eduforum/discussions-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	// BaseURL — внешний базовый адрес сервиса для ссылок в ленте обсуждений.
	BaseURL string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // счётчики/гистограммы запросов
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := NewHandlers(svc, opts.BaseURL)

	// discussions
	root.Post("/discussions", h.CreateDiscussion)
	root.Get("/discussions", h.ListDiscussions)
	root.Post("/discussions/{id}/comments", h.AddComment)
	root.Get("/discussions/{id}/comments", h.DiscussionComments)

	// users
	root.Get("/users", h.ListUsers)
	root.Get("/users/{username}", h.GetUserByName)

	// ops
	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	root.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return root
}
