package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/matt-g-everett/ledease/stream"
)

const (
	maxCommandBytes = 64 << 10
	subBuffer       = 16
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Poster accepts commands from any goroutine.
type Poster interface {
	Post(cmd stream.Command)
}

// Api serves the control endpoint, the state feed and the web client.
type Api struct {
	poster    Poster
	staticDir string
	log       *slog.Logger

	mu   sync.Mutex
	subs map[chan stream.State]struct{}
	last *stream.State
}

// NewApi creates an Api posting commands to poster. Static files are served
// from staticDir when it is not empty.
func NewApi(poster Poster, staticDir string, log *slog.Logger) *Api {
	if log == nil {
		log = slog.Default()
	}

	a := new(Api)
	a.poster = poster
	a.staticDir = staticDir
	a.log = log
	a.subs = make(map[chan stream.State]struct{})
	return a
}

// Publish records state and fans it out to websocket subscribers. It never
// blocks; a subscriber that has fallen behind is dropped.
func (a *Api) Publish(state stream.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.last = &state
	for ch := range a.subs {
		select {
		case ch <- state:
		default:
			delete(a.subs, ch)
			close(ch)
			a.log.Warn("state subscriber dropped")
		}
	}
}

// Handler returns the Api's routes.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /command", a.handleCommand)
	mux.HandleFunc("GET /state", a.handleState)
	mux.HandleFunc("GET /ws", a.handleWS)
	if a.staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(a.staticDir)))
	}
	return mux
}

// Serve listens on addr until ctx is done.
func (a *Api) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *Api) subscribe() (chan stream.State, *stream.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ch := make(chan stream.State, subBuffer)
	a.subs[ch] = struct{}{}
	return ch, a.last
}

func (a *Api) unsubscribe(ch chan stream.State) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.subs[ch]; ok {
		delete(a.subs, ch)
		close(ch)
	}
}

func (a *Api) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCommandBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	cmd, err := stream.DecodeCommand(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	a.poster.Post(cmd)
	w.WriteHeader(http.StatusAccepted)
}

func (a *Api) handleState(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	last := a.last
	a.mu.Unlock()

	if last == nil {
		http.Error(w, "no state yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(last); err != nil {
		a.log.Warn("write state", "err", err)
	}
}

func (a *Api) handleWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		a.log.Warn("websocket accept", "err", err)
		return
	}
	defer c.CloseNow()

	// Clients only listen.
	ctx := c.CloseRead(r.Context())

	ch, last := a.subscribe()
	defer a.unsubscribe(ch)

	if last != nil {
		if err := a.write(ctx, c, *last); err != nil {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-ch:
			if !ok {
				c.Close(websocket.StatusPolicyViolation, "subscriber too slow")
				return
			}
			if err := a.write(ctx, c, state); err != nil {
				return
			}
		}
	}
}

func (a *Api) write(ctx context.Context, c *websocket.Conn, state stream.State) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err := wsjson.Write(ctx, c, state)
	if err != nil {
		a.log.Debug("websocket write", "err", err)
	}
	return err
}
