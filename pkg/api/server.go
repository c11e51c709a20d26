package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/uhyunpark/tradedesk/pkg/app/core/order"
	"github.com/uhyunpark/tradedesk/pkg/app/core/portfolio"
	"github.com/uhyunpark/tradedesk/pkg/app/trading"
)

func init() {
	// Quantities and prices go over the wire as JSON numbers, written with
	// the exact decimal digits.
	decimal.MarshalJSONWithoutQuotes = true
}

// maxOrderBodyBytes caps POST /orders payloads.
const maxOrderBodyBytes = 16 << 10

// UserResolver maps a request to the acting user. Authorization, if ever
// added, plugs in here ahead of the validator.
type UserResolver func(r *http.Request) (order.UserID, error)

// StaticUser resolves every request to the same user.
func StaticUser(id order.UserID) UserResolver {
	return func(*http.Request) (order.UserID, error) { return id, nil }
}

type Options struct {
	Logger       *zap.SugaredLogger
	CORSOrigins  []string
	UserResolver UserResolver
}

// Server handles REST API and WebSocket connections
type Server struct {
	app         *trading.App
	router      *mux.Router
	hub         *Hub
	logger      *zap.SugaredLogger
	corsOrigins []string
	resolveUser UserResolver
}

// NewServer creates a new API server and hooks order broadcasts into app.
func NewServer(app *trading.App, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.UserResolver == nil {
		opts.UserResolver = StaticUser(123)
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		app:         app,
		router:      mux.NewRouter(),
		hub:         NewHub(opts.Logger),
		logger:      opts.Logger,
		corsOrigins: opts.CORSOrigins,
		resolveUser: opts.UserResolver,
	}
	app.OnOrderPlaced = s.BroadcastOrder

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.accessLog)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// WebSocket endpoint
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Same endpoints at the root and under the legacy /api/v1 prefix.
	// The prefixed subrouter is registered first so /api/v1/... never
	// falls through to a root pattern.
	s.mountAPI(s.router.PathPrefix("/api/v1").Subrouter())
	s.mountAPI(s.router)
}

func (s *Server) mountAPI(r *mux.Router) {
	r.HandleFunc("/health", s.handleHealth).Methods("GET")
	r.HandleFunc("/instruments", s.handleGetInstruments).Methods("GET")

	r.HandleFunc("/orders", s.handlePlaceOrder).Methods("POST")
	r.HandleFunc("/orders/", s.handlePlaceOrder).Methods("POST")
	r.HandleFunc("/orders/{orderId}", s.handleGetOrder).Methods("GET")

	r.HandleFunc("/trades", s.handleGetTrades).Methods("GET")
	r.HandleFunc("/portfolio", s.handleGetPortfolio).Methods("GET")
}

// Handler returns the full HTTP handler including CORS.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("api_server_listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.CloseAll()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (s *Server) handleGetInstruments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.app.Instruments())
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := s.user(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxOrderBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.logger.Debugw("order_body_rejected", "err", err)
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	placed, err := s.app.PlaceOrder(req.toOrderRequest(), user)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, placed)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.app.GetOrder(mux.Vars(r)["orderId"])
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	user, ok := s.user(w, r)
	if !ok {
		return
	}
	trades, err := s.app.Trades(user)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trades)
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	user, ok := s.user(w, r)
	if !ok {
		return
	}
	holdings, err := s.app.Portfolio(user)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, portfolio.Sorted(holdings))
}

// ==============================
// Broadcast Methods (called from the trading app)
// ==============================

// BroadcastOrder pushes a newly placed order and the owner's refreshed
// portfolio to subscribed WebSocket clients.
func (s *Server) BroadcastOrder(o order.Order) {
	ordersCh := fmt.Sprintf("orders:%s", o.UserID)
	if s.hub.HasSubscribers(ordersCh) {
		s.hub.BroadcastToChannel(ordersCh, WSMessage{Type: "order", Channel: ordersCh, Data: o})
	}

	// The snapshot replays the whole ledger, so only build it for listeners.
	portfolioCh := fmt.Sprintf("portfolio:%s", o.UserID)
	if !s.hub.HasSubscribers(portfolioCh) {
		return
	}
	holdings, err := s.app.Portfolio(o.UserID)
	if err != nil {
		s.logger.Warnw("portfolio_broadcast_failed", "user", o.UserID, "err", err)
		return
	}
	s.hub.BroadcastToChannel(portfolioCh, WSMessage{Type: "portfolio", Channel: portfolioCh, Data: portfolio.Sorted(holdings)})
}

// ==============================
// Helper Functions
// ==============================

func (s *Server) user(w http.ResponseWriter, r *http.Request) (order.UserID, bool) {
	user, err := s.resolveUser(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return 0, false
	}
	return user, true
}

func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	var ve *order.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, order.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, order.MsgOrderNotFound)
	default:
		s.logger.Errorw("request_failed", "err", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debugw("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
