package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"rento/config"
	"rento/infras/jwt"
	"rento/infras/otel"
	"rento/permissions"
	"rento/shared/constant"
	"rento/shared/failure"
	"rento/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	headerUpgrade    = "Upgrade"
	upgradeWebsocket = "websocket"
	queryAccessToken = "access_token"
	bearerPrefix     = "Bearer "
)

// internalCallKey marks requests authenticated with the service API key.
type internalCallKey struct{}

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	table      *permissions.Table
	cfg        *config.Config
}

// NewAuthRoleMiddleware creates a new middleware instance. A nil table denies every role-checked route.
func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, table *permissions.Table, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		table:      table,
		cfg:        cfg,
	}
}

func isInternal(ctx context.Context) bool {
	internal, _ := ctx.Value(internalCallKey{}).(bool)

	return internal
}

// route resolves the chi pattern of the request, so "/v1/items/abc" becomes "/v1/items/{id}".
func (m *authRoleImpl) route(request *http.Request) (string, permissions.Rule) {
	pattern := request.URL.Path

	if rctx := chi.RouteContext(request.Context()); rctx != nil && rctx.Routes != nil {
		pattern = rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
	}

	if m.table == nil {
		return pattern, permissions.Rule{}
	}

	return pattern, m.table.Lookup(request.Method, pattern)
}

// Auth validates the access token and puts the caller into the request context.
// Public routes and internal calls pass through untouched.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		if isInternal(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		pattern, rule := m.route(request)
		if rule.Public {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       pattern,
			"http.method":     request.Method,
		})

		claims, err := m.authenticate(ctx, request)
		if err != nil {
			scope.TraceError(err)
			scope.End()
			response.WithError(writer, err)

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyUserRole, claims.Role)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authRoleImpl) authenticate(ctx context.Context, request *http.Request) (*jwt.Claims, error) {
	header := bearerHeader(request)
	if header == "" {
		return nil, failure.Unauthorized("Missing authorization header")
	}

	token, err := jwt.ExtractTokenFromHeader(header)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format")
	}

	claims, err := m.jwtService.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		return nil, failure.Unauthorized(tokenFailureMessage(err))
	}

	if claims.UserID == "" || claims.Email == "" {
		log.Error().Str("token_id", claims.TokenID).Msg("JWT claims: UserID or Email is empty")

		return nil, failure.Unauthorized("Invalid token claims")
	}

	return claims, nil
}

func tokenFailureMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return "Token has expired"
	case errors.Is(err, jwt.ErrInvalidToken):
		return "Invalid token"
	case errors.Is(err, jwt.ErrInvalidClaim):
		return "Invalid token claims"
	default:
		return "Token validation failed"
	}
}

// RBAC checks the caller's role against the route's rule. Requires Auth to run first.
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "rbac.middleware")

		if isInternal(ctx) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		if m.table == nil {
			scope.TraceError(failure.ForbiddenError)
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		_, rule := m.route(request)
		if m.table.DisableRoles || rule.Public {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
		if !rule.Allows(role) {
			scope.TraceError(failure.ForbiddenError)
			scope.SetAttributes(map[string]any{
				"user_role":     role,
				"allowed_roles": rule.Roles,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal services through with the shared API key. Requests without the header
// continue as regular clients.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		if apiKey == "" {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", "internal")

		if m.cfg.App.APIKey == "" || apiKey != m.cfg.App.APIKey {
			scope.TraceError(failure.ForbiddenError)
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request.WithContext(context.WithValue(request.Context(), internalCallKey{}, true)))
	})
}

// bearerHeader returns the Authorization header. Browsers cannot set headers on a websocket
// handshake, so an upgrade request may carry the access token in the query instead.
func bearerHeader(request *http.Request) string {
	if header := request.Header.Get(constant.RequestHeaderAuthorization); header != "" {
		return header
	}

	if !strings.EqualFold(request.Header.Get(headerUpgrade), upgradeWebsocket) {
		return ""
	}

	if token := request.URL.Query().Get(queryAccessToken); token != "" {
		return bearerPrefix + token
	}

	return ""
}
