package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/culturemap/culturemap-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	dbBatchSize     = 50
	dbFlushInterval = 5 * time.Second
)

// Sink persists a batch of log rows.
type Sink func(batch []models.SystemLog) error

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	sink   Sink
	attrs  []slog.Attr
	state  *dbState
	ticker *time.Ticker
}

type dbState struct {
	mu     sync.Mutex
	buffer []models.SystemLog
	done   chan struct{}
	once   sync.Once
}

func NewDBHandler(db *gorm.DB) *DBHandler {
	return newDBHandler(func(batch []models.SystemLog) error {
		return db.CreateInBatches(batch, dbBatchSize).Error
	}, dbFlushInterval)
}

func newDBHandler(sink Sink, interval time.Duration) *DBHandler {
	h := &DBHandler{
		sink: sink,
		state: &dbState{
			buffer: make([]models.SystemLog, 0, dbBatchSize),
			done:   make(chan struct{}),
		},
		ticker: time.NewTicker(interval),
	}
	go h.flushLoop()
	return h
}

func (h *DBHandler) flushLoop() {
	for {
		select {
		case <-h.ticker.C:
			h.Flush()
		case <-h.state.done:
			h.Flush()
			return
		}
	}
}

// Flush writes everything buffered so far.
func (h *DBHandler) Flush() {
	h.state.mu.Lock()
	if len(h.state.buffer) == 0 {
		h.state.mu.Unlock()
		return
	}
	batch := h.state.buffer
	h.state.buffer = make([]models.SystemLog, 0, dbBatchSize)
	h.state.mu.Unlock()

	if err := h.sink(batch); err != nil {
		// Logged below ERROR so the record does not loop back into this handler.
		slog.Warn("failed to flush system logs", "error", err, "count", len(batch))
	}
}

func (h *DBHandler) Stop() {
	h.state.once.Do(func() {
		h.ticker.Stop()
		close(h.state.done)
	})
}

func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		ID:        uuid.New(),
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   record.Message,
	}

	extra := make(map[string]interface{})
	apply := func(a slog.Attr) bool {
		switch a.Key {
		case "request_id":
			entry.RequestID = a.Value.String()
		case "user_id":
			s := a.Value.String()
			entry.UserID = &s
		case "site_id":
			if a.Value.Kind() == slog.KindUint64 {
				v := uint(a.Value.Uint64())
				entry.SiteID = &v
			} else if a.Value.Kind() == slog.KindInt64 && a.Value.Int64() >= 0 {
				v := uint(a.Value.Int64())
				entry.SiteID = &v
			}
		case "action":
			entry.Action = a.Value.String()
		case "error":
			entry.Error = a.Value.String()
		default:
			extra[a.Key] = a.Value.Any()
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	h.state.mu.Lock()
	h.state.buffer = append(h.state.buffer, entry)
	needFlush := len(h.state.buffer) >= dbBatchSize
	h.state.mu.Unlock()

	if needFlush {
		go h.Flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{sink: h.sink, attrs: merged, state: h.state, ticker: h.ticker}
}

// WithGroup is a no-op; grouped attrs are stored flat.
func (h *DBHandler) WithGroup(string) slog.Handler {
	return h
}
