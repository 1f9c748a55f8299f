package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/emberworks/firefighter-simulator/internal/logging"
	"github.com/emberworks/firefighter-simulator/internal/sim"
	"github.com/emberworks/firefighter-simulator/model"
	"github.com/emberworks/firefighter-simulator/playback"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The API carries no credentials, so cross-origin viewers are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// playbackFrame is one websocket message of a replayed simulation.
type playbackFrame struct {
	Time     model.TimeUnit   `json:"time"`
	Final    bool             `json:"final"`
	Metadata sim.StepMetadata `json:"metadata"`
}

// handlePlayback replays a finished simulation tick by tick over a
// websocket. The ?mode=accelerated query skips the wall-clock pacing.
func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	engine, id, ok := s.lookupSimulation(w, r)
	if !ok {
		return
	}

	mode := playback.RealTime
	if r.URL.Query().Get("mode") == "accelerated" {
		mode = playback.Accelerated
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	log := s.requestLogger(ctx).With(logging.String("simulation_id", id.String()))
	log.Debug(ctx, "playback started",
		logging.Uint64("end_time", uint64(engine.Time())))

	// Reads only deliver close/error signals; discard them and stop the
	// replay when the peer goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	player := playback.NewPlayer(engine.Time(), s.cfg.PlaybackTick, mode)
	player.AddListener(func(t model.TimeUnit) {
		frame := playbackFrame{
			Time:     t,
			Final:    t == engine.Time(),
			Metadata: engine.StepMetadata(t),
		}
		if err := conn.WriteJSON(frame); err != nil {
			cancel()
		}
	})

	<-player.Start(ctx)
	log.Debug(ctx, "playback finished", logging.Uint64("last_tick", uint64(player.Now())))

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
}
