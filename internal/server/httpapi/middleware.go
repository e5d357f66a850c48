package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/flatfinder/internal/common"
	"github.com/dmitrijs2005/flatfinder/internal/server/policy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// authenticate attaches the bearer token identity to the request context.
// Requests without a token pass through unauthenticated; a bad token is
// rejected.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, strings.TrimSpace(common.BearerPrefix)) || strings.TrimSpace(token) == "" {
			s.writeError(w, r, common.ErrInvalidToken)
			return
		}

		claims, err := s.creds.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		id := &policy.Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(policy.WithIdentity(r.Context(), id)))
	})
}

// require evaluates rules against the caller and the matched route
// parameters. Use it with chi's With so the parameters are known.
func (s *Server) require(rules ...policy.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := policy.Request{
				Identity: policy.IdentityFrom(r.Context()),
				Params:   routeParams(r),
			}
			if d := policy.Evaluate(r.Context(), req, rules...); !d.Allowed {
				s.writeError(w, r, d.Reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func routeParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return params
	}
	for i, k := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			params[k] = rctx.URLParams.Values[i]
		}
	}
	return params
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
