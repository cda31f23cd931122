package rest

import (
	"net/http"

	"github.com/heartmarshall/bizdesk-backend/internal/transport/middleware"
	"github.com/heartmarshall/bizdesk-backend/pkg/commentapi"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	Comments *CommentHandler
	Tours    *TourHandler
	Health   *HealthHandler

	// Global wraps every route (request id, recovery, logging, CORS, auth).
	Global middleware.Middleware
	// Public wraps anonymous endpoints, typically the rate limiter.
	Public middleware.Middleware
	// Loaders injects per-request DataLoaders on routes that batch.
	Loaders middleware.Middleware
}

// NewRouter builds the HTTP route table of the comment service.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	private := middleware.Chain(middleware.RequireAuth)
	public := identity
	if d.Public != nil {
		public = d.Public
	}
	loaders := identity
	if d.Loaders != nil {
		loaders = d.Loaders
	}

	// Comments
	mux.Handle("GET "+commentapi.PathComments, private(http.HandlerFunc(d.Comments.List)))
	mux.Handle("POST "+commentapi.PathComments, private(http.HandlerFunc(d.Comments.Create)))
	mux.Handle("GET "+commentapi.PathPublicComments, public(http.HandlerFunc(d.Comments.List)))
	mux.Handle("POST "+commentapi.PathPublicComments, public(http.HandlerFunc(d.Comments.Create)))
	mux.Handle("GET "+commentapi.PathCommentCounts, private(loaders(http.HandlerFunc(d.Comments.Counts))))

	// Reactions
	mux.Handle("POST "+commentapi.PathReactions, private(http.HandlerFunc(d.Comments.AddReaction)))
	mux.Handle("POST "+commentapi.PathPublicReactions, public(http.HandlerFunc(d.Comments.AddReaction)))

	// Tour status
	mux.Handle("GET "+commentapi.PathTourStatus, private(http.HandlerFunc(d.Tours.GetStatus)))
	mux.Handle("PUT "+commentapi.PathTourStatus, private(http.HandlerFunc(d.Tours.PutStatus)))
	mux.Handle("DELETE "+commentapi.PathTourStatus, private(http.HandlerFunc(d.Tours.DeleteStatus)))

	// Health
	mux.HandleFunc("GET /live", d.Health.Live)
	mux.HandleFunc("GET /ready", d.Health.Ready)
	mux.HandleFunc("GET /health", d.Health.Health)

	if d.Global == nil {
		return mux
	}
	return d.Global(mux)
}

func identity(next http.Handler) http.Handler { return next }
