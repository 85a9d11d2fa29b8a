package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remotesession/gateway/internal/config"
	"github.com/remotesession/gateway/internal/frame"
)

func TestSecurityHeadersMiddleware(t *testing.T) {
	h := securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
}

func TestCreateServer(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	srv := createServer(cfg)

	assert.Equal(t, "0.0.0.0:8080", srv.Addr)
	assert.NotNil(t, srv.Handler)
	assert.Equal(t, cfg.Server.ReadTimeout, srv.ReadTimeout)
}

func TestDevCollaborators(t *testing.T) {
	collab := devCollaborators(frame.Size{Width: 640, Height: 480})

	require.NotNil(t, collab.Source)
	require.NotNil(t, collab.Injector)
	require.NotNil(t, collab.Connector)

	buf, err := collab.Source.CaptureFullscreen()
	require.NoError(t, err)
	assert.Equal(t, 640, buf.Width)
	assert.Equal(t, 480, buf.Height)
}

func TestDevInjector_AllInjectionsSucceed(t *testing.T) {
	inj := devInjector{}

	assert.NoError(t, inj.SendKeyUnicode(65, true))
	assert.NoError(t, inj.SendKeyScancode(30, false))
	assert.NoError(t, inj.SendMouseMove(10, 20))
	assert.NoError(t, inj.SendWheel(true, 10, 20))
	assert.NoError(t, inj.RequestClipboard())
}

func TestDevConnector_StoresSettings(t *testing.T) {
	c := &devConnector{}

	c.SetServer("10.0.0.5:3389")
	c.SetDomain("CORP")
	c.SetUsername("alice")
	c.SetPassword("s3cret")

	assert.Equal(t, "10.0.0.5:3389", c.server)
	assert.Equal(t, "alice", c.username)
	assert.NoError(t, c.Connect())
}
