package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// SnapshotFunc returns the redacted room snapshot for a viewer, the same
// payload the polling read returns.
type SnapshotFunc func(roomCode, viewer string) (interface{}, error)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Watcher pushes room snapshots to connected peers so clients can watch a
// room without polling.
type Watcher struct {
	snapshot SnapshotFunc
	interval time.Duration
}

func NewWatcher(snapshot SnapshotFunc, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{snapshot: snapshot, interval: interval}
}

// Serve handles GET /ws/:room_code. The viewer is taken from the ?player=
// query so redaction matches what that player would see over HTTP. The
// first snapshot is sent immediately, then one per interval until the peer
// disconnects or the room goes away.
func (w *Watcher) Serve(c *gin.Context) {
	roomCode := c.Param("room_code")
	viewer := c.Query("player")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade failed:", err)
		return
	}
	defer conn.Close()

	// Drain reads so close frames from the peer are noticed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if !w.push(conn, roomCode, viewer) {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if !w.push(conn, roomCode, viewer) {
				return
			}
		}
	}
}

func (w *Watcher) push(conn *websocket.Conn, roomCode, viewer string) bool {
	snap, err := w.snapshot(roomCode, viewer)
	if err != nil {
		conn.WriteJSON(gin.H{"error": err.Error()})
		return false
	}
	if err := conn.WriteJSON(snap); err != nil {
		return false
	}
	return true
}
