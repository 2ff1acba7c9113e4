// Package httpserver exposes the signal intake webhook and status
// endpoints over HTTP.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"wheelStrategyBot/internal/app"
	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
	"wheelStrategyBot/internal/signal"
)

const defaultRecentLimit = 20

// Server wires HTTP endpoints around the order pipeline.
type Server struct {
	Router    *gin.Engine
	pipeline  *app.Pipeline
	repo      ports.SignalRecordRepository
	logger    ports.Logger
	hasBroker bool
}

// Config holds the server's collaborators.
type Config struct {
	Pipeline  *app.Pipeline
	Repo      ports.SignalRecordRepository
	Logger    ports.Logger
	HasBroker bool
}

// New creates the HTTP server and registers its routes.
func New(cfg Config) (*Server, error) {
	if cfg.Pipeline == nil || cfg.Repo == nil || cfg.Logger == nil {
		return nil, errors.New("missing required dependencies for HTTP server")
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		Router:    r,
		pipeline:  cfg.Pipeline,
		repo:      cfg.Repo,
		logger:    cfg.Logger,
		hasBroker: cfg.HasBroker,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.Router.GET("/", s.root)
	s.Router.GET("/health", s.health)
	s.Router.POST("/webhook", s.webhook)
	s.Router.GET("/signals", s.recentSignals)
}

func (s *Server) root(c *gin.Context) {
	brokerStatus := "Disconnected"
	if s.hasBroker {
		brokerStatus = "Connected"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Wheel Strategy Bot is running",
		"status":            "active",
		"broker_connection": brokerStatus,
		"timestamp":         time.Now().Format(time.RFC3339),
	})
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":          "Wheel Strategy Bot",
		"status":           "healthy",
		"broker_connected": s.hasBroker,
		"timestamp":        time.Now().Format(time.RFC3339),
		"endpoints": gin.H{
			"webhook": "/webhook (POST)",
			"status":  "/ (GET)",
			"signals": "/signals (GET)",
			"health":  "/health (GET)",
		},
	})
}

// webhook is the signal intake endpoint. Validation failures reject with
// 400 before anything is persisted; a failed broker leg still returns 200
// and callers must consult the record's status for the downstream outcome.
func (s *Server) webhook(c *gin.Context) {
	var raw signal.RawSignal
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "rejected",
			"detail": "invalid request body: " + err.Error(),
		})
		return
	}

	result, err := s.pipeline.Submit(c.Request.Context(), raw)
	if err != nil {
		if ports.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"status": "rejected",
				"field":  violatedField(err),
				"detail": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"detail": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"message":   "Successfully processed " + string(result.Signal.Action) + " signal",
		"signal_id": result.RecordID,
		"signal":    echoSignal(result.Signal),
		"result":    result,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) recentSignals(c *gin.Context) {
	limit := defaultRecentLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := s.repo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error(c.Request.Context(), err, "failed to list recent signals")
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "detail": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(records))
	for _, rec := range records {
		out = append(out, echoRecord(rec))
	}
	c.JSON(http.StatusOK, gin.H{"signals": out, "count": len(out)})
}

// Run starts the HTTP server and shuts it down when ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Router}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.logger.Info(ctx, "HTTP server listening", map[string]interface{}{"addr": addr})

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func echoSignal(sig *domain.TradingSignal) gin.H {
	return gin.H{
		"action":   sig.Action,
		"symbol":   sig.Symbol,
		"strike":   sig.Strike,
		"expiry":   sig.ExpiryString(),
		"premium":  sig.Premium,
		"quantity": sig.Quantity,
	}
}

func echoRecord(rec *domain.SignalRecord) gin.H {
	h := gin.H{
		"id":         rec.ID,
		"action":     rec.Action,
		"symbol":     rec.Symbol,
		"strike":     rec.Strike,
		"expiry":     rec.Expiry.Format(time.DateOnly),
		"premium":    rec.Premium,
		"quantity":   rec.Quantity,
		"status":     rec.Status,
		"created_at": rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.BrokerOrderRef != nil {
		h["broker_order_ref"] = *rec.BrokerOrderRef
	}
	if rec.ErrorMessage != nil {
		h["error_message"] = *rec.ErrorMessage
	}
	if !rec.ProcessedAt.IsZero() {
		h["processed_at"] = rec.ProcessedAt.Format(time.RFC3339)
	}
	return h
}

// violatedField maps a validation sentinel to the offending payload field.
func violatedField(err error) string {
	switch {
	case errors.Is(err, ports.ErrInvalidAction):
		return "action"
	case errors.Is(err, ports.ErrInvalidSymbol):
		return "symbol"
	case errors.Is(err, ports.ErrInvalidStrike):
		return "strike"
	case errors.Is(err, ports.ErrInvalidPremium):
		return "premium"
	case errors.Is(err, ports.ErrInvalidExpiryFormat), errors.Is(err, ports.ErrExpiryNotInFuture):
		return "expiry"
	case errors.Is(err, ports.ErrInvalidQuantity):
		return "quantity"
	default:
		return ""
	}
}
