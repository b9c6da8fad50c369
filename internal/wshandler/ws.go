package wshandler

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/dronesurvey/dss/internal/model"
)

const writeTimeout = time.Second * 5

// JSONWsHandler is a mission observer writing snapshots to one websocket.
type JSONWsHandler struct {
	log    *slog.Logger
	name   string
	ws     *websocket.Conn
	ch     chan *model.MissionDTO
	done   chan struct{}
	active int32
}

func NewHandler(log *slog.Logger, name string, ws *websocket.Conn, buffer int) *JSONWsHandler {
	if buffer <= 0 {
		buffer = 10
	}

	return &JSONWsHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *model.MissionDTO, buffer),
		done:   make(chan struct{}),
		active: 1,
	}
}

func (w *JSONWsHandler) GetName() string {
	return w.name
}

func (w *JSONWsHandler) IsActive() bool {
	return w != nil && atomic.LoadInt32(&w.active) == 1
}

func (w *JSONWsHandler) stop() {
	if atomic.CompareAndSwapInt32(&w.active, 1, 0) {
		close(w.done)
		w.ws.Close()
	}
}

// Send queues the snapshot without blocking. A client that can't keep up is disconnected.
func (w *JSONWsHandler) Send(m *model.MissionDTO) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	select {
	case <-w.done:
		return false
	case w.ch <- m:
		return true
	default:
		w.log.Warn("client is too slow, disconnecting")
		w.stop()

		return false
	}
}

func (w *JSONWsHandler) writer() {
	for {
		select {
		case <-w.done:
			return
		case item := <-w.ch:
			if item == nil {
				continue
			}

			_ = w.ws.SetWriteDeadline(time.Now().Add(writeTimeout))

			if err := w.ws.WriteJSON(item); err != nil {
				w.log.Info("write error", slog.Any("error", err))
				w.stop()

				return
			}
		}
	}
}

func (w *JSONWsHandler) reader() {
	defer w.stop()

	for {
		if _, _, err := w.ws.ReadMessage(); err != nil {
			if w.IsActive() {
				w.log.Debug("read finished", slog.Any("error", err))
			}

			return
		}
	}
}

func (w *JSONWsHandler) closehandler(code int, text string) error {
	w.log.Info(fmt.Sprintf("closed with code %d, msg %s", code, text))
	w.stop()

	return nil
}

// Listen blocks until the connection is closed by either side.
func (w *JSONWsHandler) Listen() {
	w.log.Debug("ws start")
	w.ws.SetCloseHandler(w.closehandler)

	go w.writer()
	w.reader()
	w.log.Debug("ws stop")
}
