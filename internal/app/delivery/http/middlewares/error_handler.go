package middlewares

import (
	"net/http"
	"zemedic-service/internal/pkg/exceptions"
	"zemedic-service/internal/pkg/utils"
)

func (m *Middlewares) ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				utils.BuildErrorResponse(m.Log, w, exceptions.ErrServerPanic(rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
