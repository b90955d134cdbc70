package server

// Route path constants.
const (
	RouteSessions               = "/api/v1/sessions"
	RouteSessionByID            = "/api/v1/sessions/{sessionId}"
	RouteSessionRefresh         = "/api/v1/sessions/{sessionId}/refresh"
	RouteSessionValidate        = "/api/v1/sessions/{sessionId}/validate"
	RouteSessionsByParty        = "/api/v1/sessions/party/{partyId}"
	RouteSessionAccessCheck     = "/api/v1/sessions/access-check"
	RouteSessionPermissionCheck = "/api/v1/sessions/permission-check"

	RouteAuthLogin         = "/api/v1/auth/login"
	RouteAuthRefresh       = "/api/v1/auth/refresh"
	RouteAuthLogout        = "/api/v1/auth/logout"
	RouteAuthIntrospect    = "/api/v1/auth/introspect"
	RouteAuthResetPassword = "/api/v1/auth/reset-password"
	RouteAuthUsers         = "/api/v1/auth/users"

	RouteHealth = "/healthz"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware()

	s.RegisterRouteFunc("POST "+RouteSessions, ChainMiddleware(s.CreateOrGetSessionHandler(), api...))
	s.RegisterRouteFunc("GET "+RouteSessionByID, ChainMiddleware(s.GetSessionHandler(), api...))
	s.RegisterRouteFunc("DELETE "+RouteSessionByID, ChainMiddleware(s.InvalidateSessionHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteSessionRefresh, ChainMiddleware(s.RefreshSessionHandler(), api...))
	s.RegisterRouteFunc("GET "+RouteSessionValidate, ChainMiddleware(s.ValidateSessionHandler(), api...))
	s.RegisterRouteFunc("GET "+RouteSessionsByParty, ChainMiddleware(s.GetSessionByPartyHandler(), api...))
	s.RegisterRouteFunc("DELETE "+RouteSessionsByParty, ChainMiddleware(s.InvalidateSessionsByPartyHandler(), api...))
	s.RegisterRouteFunc("GET "+RouteSessionAccessCheck, ChainMiddleware(s.AccessCheckHandler(), api...))
	s.RegisterRouteFunc("GET "+RouteSessionPermissionCheck, ChainMiddleware(s.PermissionCheckHandler(), api...))

	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshTokenHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthIntrospect, ChainMiddleware(s.IntrospectHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthResetPassword, ChainMiddleware(s.ResetPasswordHandler(), api...))
	s.RegisterRouteFunc("POST "+RouteAuthUsers, ChainMiddleware(s.CreateUserHandler(), api...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}
