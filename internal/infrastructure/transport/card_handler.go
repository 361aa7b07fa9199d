package transport

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"roastcard/app/usecase"
	"roastcard/internal/domain/entity"
	"roastcard/internal/infrastructure/metrics"
)

const (
	// Client-facing text for any pipeline failure; details stay in the logs.
	genericCardError = "failed to generate card"

	wsWriteTimeout = 10 * time.Second
	maxRequestBody = 1 << 16
)

type CardHandler struct {
	cards    usecase.CardUsecase
	logger   *slog.Logger
	upgrader websocket.Upgrader
	timeout  time.Duration
}

// NewCardHandler bounds every generation by timeout; zero means no bound
// beyond the client connection.
func NewCardHandler(cards usecase.CardUsecase, timeout time.Duration, logger *slog.Logger) *CardHandler {
	return &CardHandler{
		cards:  cards,
		logger: logger.With("component", "http"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		timeout: timeout,
	}
}

// Middleware для метрик
func (h *CardHandler) withMetrics(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		metrics.ObserveHTTPRequest(r.Method, path, strconv.Itoa(rw.status), time.Since(start), rw.status >= 400)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (h *CardHandler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/cards", h.withMetrics(h.handleCreateCard)).Methods(http.MethodPost)
	api.HandleFunc("/cards/ws", h.withMetrics(h.handleCardStream)).Methods(http.MethodGet)
	api.HandleFunc("/roasts", h.withMetrics(h.handleCreateRoast)).Methods(http.MethodPost)
	api.HandleFunc("/logos/{company}", h.withMetrics(h.handleGetLogo)).Methods(http.MethodGet)
	api.HandleFunc("/health", h.withMetrics(h.handleHealth)).Methods(http.MethodGet)

	// Prometheus
	r.Handle("/metrics", metrics.Handler())
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

type cardReq struct {
	Company string `json:"company"`
	Role    string `json:"role"`
}

type cardResponse struct {
	RequestID    string  `json:"request_id"`
	Filename     string  `json:"filename"`
	Domain       string  `json:"domain"`
	Category     string  `json:"category"`
	LogoURL      string  `json:"logo_url"`
	Roast        string  `json:"roast"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Cost         float64 `json:"cost"`
	Fallback     bool    `json:"fallback"`
	Attempts     int     `json:"attempts"`
	Image        string  `json:"image"` // base64 PNG
}

func newCardResponse(card *entity.CardArtifact) cardResponse {
	return cardResponse{
		RequestID:    card.RequestID,
		Filename:     card.Filename,
		Domain:       card.Domain,
		Category:     card.Category,
		LogoURL:      card.LogoURL,
		Roast:        card.Roast.Text,
		InputTokens:  card.Roast.InputTokens,
		OutputTokens: card.Roast.OutputTokens,
		Cost:         card.Roast.Cost,
		Fallback:     card.Roast.Fallback,
		Attempts:     card.Roast.Attempts,
		Image:        base64.StdEncoding.EncodeToString(card.Image),
	}
}

func decodeCardReq(w http.ResponseWriter, r *http.Request) (cardReq, error) {
	var req cardReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		return req, fmt.Errorf("bad request body: %w", err)
	}
	if strings.TrimSpace(req.Company) == "" {
		return req, entity.ErrInvalidRequest
	}
	return req, nil
}

func (h *CardHandler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(ctx, h.timeout)
	}
	return context.WithCancel(ctx)
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mt == "application/json" {
			return true
		}
	}
	return false
}

// POST /api/v1/cards
func (h *CardHandler) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCardReq(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	card, err := h.cards.GenerateCard(ctx, req.Company, req.Role, nil)
	if err != nil {
		h.writeCardError(w, err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, newCardResponse(card))
		return
	}

	w.Header().Set("Content-Type", card.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": card.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(card.Image)))
	w.Header().Set("X-Roast-Cost", strconv.FormatFloat(card.Roast.Cost, 'f', 6, 64))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(card.Image)
}

func (h *CardHandler) writeCardError(w http.ResponseWriter, err error) {
	if errors.Is(err, entity.ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.logger.Error("card generation failed", "err", err)
	writeError(w, http.StatusInternalServerError, errors.New(genericCardError))
}

// POST /api/v1/roasts
func (h *CardHandler) handleCreateRoast(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCardReq(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	roast, err := h.cards.GenerateRoast(ctx, req.Company, req.Role)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		h.logger.Error("roast generation failed", "err", err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to generate roast"))
		return
	}
	writeJSON(w, http.StatusOK, roast)
}

// GET /api/v1/logos/{company}
//
// logo_url is empty when no usable logo exists.
func (h *CardHandler) handleGetLogo(w http.ResponseWriter, r *http.Request) {
	company := mux.Vars(r)["company"]
	res, err := h.cards.LookupLogo(r.Context(), company)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type streamMessage struct {
	Stage   entity.Stage  `json:"stage"`
	Message string        `json:"message"`
	Card    *cardResponse `json:"card,omitempty"`
}

// GET /api/v1/cards/ws
//
// The client sends one {"company","role"} message; the server answers with
// progress messages and closes after a done or error message.
func (h *CardHandler) handleCardStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxRequestBody)

	var req cardReq
	if err := conn.ReadJSON(&req); err != nil {
		h.logger.Warn("websocket read failed", "err", err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	// A read error means the client went away; stop the pipeline.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(msg streamMessage) {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Debug("websocket write failed", "err", err)
			cancel()
		}
	}

	card, err := h.cards.GenerateCard(ctx, req.Company, req.Role, func(ev entity.ProgressEvent) {
		send(streamMessage{Stage: ev.Stage, Message: ev.Message})
	})
	if err != nil {
		msg := genericCardError
		if errors.Is(err, entity.ErrInvalidRequest) {
			msg = err.Error()
		} else {
			h.logger.Error("card generation failed", "err", err)
		}
		send(streamMessage{Stage: entity.StageError, Message: msg})
	} else {
		resp := newCardResponse(card)
		send(streamMessage{Stage: entity.StageDone, Message: "Card ready", Card: &resp})
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// GET /api/v1/health
func (h *CardHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"ok": true,
		"ts": time.Now().UTC(),
	}
	writeJSON(w, http.StatusOK, status)
}
