package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/remotesession/gateway/internal/command"
	"github.com/remotesession/gateway/internal/config"
	"github.com/remotesession/gateway/internal/frame"
	"github.com/remotesession/gateway/internal/handler"
	"github.com/remotesession/gateway/internal/logging"
)

const (
	appName    = "Remote Session Gateway"
	appVersion = "v1.0.0"
)

func main() {
	hostFlag := flag.String("host", "", "gateway listen host")
	portFlag := flag.String("port", "", "gateway listen port")
	logLevelFlag := flag.String("log-level", "", "log level (debug, info, warn, error)")
	jwtSecretFlag := flag.String("jwt-secret", "", "HS256 secret protecting /connect (empty disables auth)")
	helpFlag := flag.Bool("help", false, "show help")
	versionFlag := flag.Bool("version", false, "show version")

	flag.Parse()

	if *helpFlag {
		showHelp()
		return
	}

	if *versionFlag {
		showVersion()
		return
	}

	opts := config.LoadOptions{
		Host:      strings.TrimSpace(*hostFlag),
		Port:      strings.TrimSpace(*portFlag),
		LogLevel:  strings.TrimSpace(*logLevelFlag),
		JWTSecret: strings.TrimSpace(*jwtSecretFlag),
	}

	cfg, err := config.LoadWithOverrides(opts)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logging.SetLevelFromString(cfg.Logging.Level)

	server := createServer(cfg)
	logging.Info("starting gateway on %s:%s", cfg.Server.Host, cfg.Server.Port)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalln(err)
	}
}

func createServer(cfg *config.Config) *http.Server {
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)

	mux := http.NewServeMux()
	mux.HandleFunc("/connect", handler.Connect(cfg, devCollaborators))

	h := securityHeadersMiddleware(mux)
	h = requestLoggingMiddleware(h)

	return &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

// devCollaborators wires a session to the built-in test pattern source and
// logging input sinks. A production deployment replaces this factory with
// the real capture/injection hookup.
func devCollaborators(desktop frame.Size) handler.Collaborators {
	return handler.Collaborators{
		Source:    frame.NewTestPattern(desktop),
		Injector:  &devInjector{},
		Connector: &devConnector{},
	}
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logging.Debug("%s %s %s %s", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}

func showHelp() {
	fmt.Println(appName)
	fmt.Println("USAGE: gateway [options]")
	fmt.Println("OPTIONS:")
	fmt.Println("  -host        Set listen host (default 0.0.0.0)")
	fmt.Println("  -port        Set listen port (default 8080)")
	fmt.Println("  -log-level   Set log level (debug, info, warn, error)")
	fmt.Println("  -jwt-secret  Set HS256 secret for /connect auth")
	fmt.Println("  -version     Show version information")
	fmt.Println("  -help        Show this help message")
	fmt.Println("ENVIRONMENT VARIABLES: SERVER_HOST, SERVER_PORT, LOG_LEVEL, JWT_SECRET,")
	fmt.Println("  ENCODING_MODE, ENCODING_QUALITY, ENCODING_SAMPLING, ALLOWED_ORIGINS")
}

func showVersion() {
	fmt.Printf("%s %s\n", appName, appVersion)
}

// devInjector logs injected input instead of delivering it anywhere.
type devInjector struct{}

func (devInjector) SendKeyUnicode(code int, pressed bool) error {
	logging.Debug("inject key unicode %d pressed=%t", code, pressed)
	return nil
}

func (devInjector) SendKeyScancode(code int, pressed bool) error {
	logging.Debug("inject key scancode %d pressed=%t", code, pressed)
	return nil
}

func (devInjector) SendMouseMove(x, y int) error {
	logging.Debug("inject mouse move %d,%d", x, y)
	return nil
}

func (devInjector) SendMouseButton(button command.MouseButton, pressed bool, x, y int) error {
	logging.Debug("inject mouse button %d pressed=%t at %d,%d", button, pressed, x, y)
	return nil
}

func (devInjector) SendWheel(up bool, x, y int) error {
	logging.Debug("inject wheel up=%t at %d,%d", up, x, y)
	return nil
}

func (devInjector) RequestClipboard() error {
	logging.Debug("inject clipboard request")
	return nil
}

// devConnector accumulates connection settings; Connect only logs, since
// the dev wiring has no remote session to open. The password is stored but
// never logged.
type devConnector struct {
	server   string
	vmGuid   string
	domain   string
	username string
	password string
	program  string
}

func (c *devConnector) SetServer(hostport string)   { c.server = hostport }
func (c *devConnector) SetVMGuid(guid string)       { c.vmGuid = guid }
func (c *devConnector) SetDomain(domain string)     { c.domain = domain }
func (c *devConnector) SetUsername(username string) { c.username = username }
func (c *devConnector) SetPassword(password string) { c.password = password }
func (c *devConnector) SetStartProgram(prog string) { c.program = prog }

func (c *devConnector) Connect() error {
	logging.Info("connect requested: server=%s domain=%s user=%s", c.server, c.domain, c.username)
	return nil
}
