// Package handler exposes the browser-facing /connect endpoint: origin and
// token checks, the websocket upgrade and session spin-up.
package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/remotesession/gateway/internal/command"
	"github.com/remotesession/gateway/internal/config"
	"github.com/remotesession/gateway/internal/encoder"
	"github.com/remotesession/gateway/internal/frame"
	"github.com/remotesession/gateway/internal/logging"
	"github.com/remotesession/gateway/internal/session"
	"github.com/remotesession/gateway/internal/transport"
)

const (
	webSocketReadBufferSize  = 8192
	webSocketWriteBufferSize = 8192 * 2
)

// Collaborators are the external subsystems one session needs: pixel
// capture, input injection and the connection settings sink.
type Collaborators struct {
	Source    frame.Source
	Injector  command.Injector
	Connector command.Connector
}

// SourceFactory builds a frame source for a desktop size. Each connection
// gets its own source so sessions never share capture state.
type SourceFactory func(desktop frame.Size) Collaborators

// Connect returns the /connect handler. Each accepted websocket becomes
// one session running until the client closes or the transport fails.
func Connect(cfg *config.Config, collaborators SourceFactory) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  webSocketReadBufferSize,
		WriteBufferSize: webSocketWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isAllowedOrigin(r.Header.Get("Origin"), cfg.Security.AllowedOrigins)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if !authorize(r, cfg.Security.JWTSecret) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		desktop, err := desktopSize(r, cfg)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error("upgrade websocket: %v", err)
			return
		}

		collab := collaborators(desktop)

		sess := session.New(
			transport.NewWebSocket(wsConn),
			collab.Source,
			collab.Injector,
			collab.Connector,
			session.Options{
				Desktop:        desktop,
				Mode:           encoder.EncodingMode(cfg.Encoding.Mode),
				Quality:        encoder.Quality(cfg.Encoding.Quality),
				Sampling:       cfg.Encoding.Sampling,
				Delimiter:      command.DefaultDelimiter,
				ReadBufferSize: cfg.Session.InboundBufferSize,
			},
		)

		if err := sess.Run(); err != nil {
			logging.Info("session %s: ended: %v", sess.ID, err)
		}
	}
}

func desktopSize(r *http.Request, cfg *config.Config) (frame.Size, error) {
	width, err := queryInt(r, "width", cfg.Session.DefaultWidth)
	if err != nil {
		return frame.Size{}, err
	}

	height, err := queryInt(r, "height", cfg.Session.DefaultHeight)
	if err != nil {
		return frame.Size{}, err
	}

	if width <= 0 || height <= 0 || width > cfg.Session.MaxWidth || height > cfg.Session.MaxHeight {
		return frame.Size{}, fmt.Errorf("dimensions %dx%d out of range", width, height)
	}

	return frame.Size{Width: width, Height: height}, nil
}

func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}

	return v, nil
}

// authorize validates the bearer token when a JWT secret is configured.
// Without a secret the endpoint is open, which suits reverse-proxy setups
// that authenticate upstream.
func authorize(r *http.Request, secret string) bool {
	if secret == "" {
		return true
	}

	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	return validToken(token, secret)
}

func validToken(token, secret string) bool {
	if token == "" {
		return false
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	return err == nil && parsed.Valid
}

func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	if origin == "" {
		return false
	}

	normalized := strings.TrimPrefix(strings.TrimPrefix(origin, "http://"), "https://")
	normalized = strings.TrimSuffix(normalized, "/")

	if len(allowedOrigins) == 0 {
		return true
	}

	if strings.HasPrefix(normalized, "localhost") || strings.HasPrefix(normalized, "127.0.0.1") {
		return true
	}

	for _, entry := range allowedOrigins {
		candidate := strings.TrimSpace(entry)
		if candidate == "" {
			continue
		}
		if candidate == origin || candidate == normalized {
			return true
		}
		if strings.TrimPrefix(candidate, "http://") == normalized || strings.TrimPrefix(candidate, "https://") == normalized {
			return true
		}
	}

	return false
}
