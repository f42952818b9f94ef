package middlewares

import (
	"context"
	"net/http"
	"zemedic-service/internal/pkg/constvars"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate resolves the bearer token to its Redis session and stores the
// raw session JSON in the request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		token, err := utils.BearerToken(r.Header.Get(constvars.HeaderAuthorization))
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenMissing(err))
			return
		}

		sessionID, err := utils.ParseJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			m.Log.Warn("Middlewares.Authenticate invalid token",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrTokenInvalidOrExpired(err))
			return
		}

		sessionData, err := m.SessionService.GetSessionData(r.Context(), sessionID)
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_SESSION_DATA_KEY, sessionData)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
