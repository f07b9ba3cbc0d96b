package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billed/internal/api"
)

// LoggingInterceptor returns a Connect interceptor that logs every bills
// store and auth call: procedure, caller, the bill or account it targets,
// duration and error code.
//
// Mount it after RequireAuth so the caller's email is known.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			attrs := []any{"procedure", req.Spec().Procedure}
			if email := GetEmail(ctx); email != "" {
				attrs = append(attrs, "caller", email, "role", GetRole(ctx))
			}
			attrs = append(attrs, targetAttrs(req.Any())...)

			resp, err := next(ctx, req)

			attrs = append(attrs, "duration_ms", time.Since(start).Milliseconds())
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr):
				slog.Warn("RPC error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC error", append(attrs, "error", err)...)
			}

			return resp, err
		}
	}
}

// targetAttrs names what a request acts on. Passwords and receipt bytes
// are never logged.
func targetAttrs(msg any) []any {
	switch m := msg.(type) {
	case *api.CreateBillRequest:
		return []any{"owner", m.Email, "file_name", m.FileName, "size", len(m.Content)}
	case *api.UpdateBillRequest:
		return []any{"bill_id", m.Selector}
	case *api.DeleteBillRequest:
		return []any{"bill_id", m.Selector}
	case *api.LoginRequest:
		return []any{"email", m.Email, "type", m.Type}
	case *api.RegisterRequest:
		return []any{"email", m.Email}
	}
	return nil
}
