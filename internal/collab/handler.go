package collab

import (
	"net/http"

	"github.com/coder/websocket"

	"github.com/dragdom/dragdom/internal/auth"
	"github.com/dragdom/dragdom/internal/typeid"
)

// ServeWS upgrades the request and attaches the connection to hub. When the
// route sits behind auth.Middleware the token subject names the client;
// otherwise it is anonymous.
func ServeWS(hub *Hub, originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := auth.SubjectFromContext(r.Context())
		if subject == "" {
			subject = "anonymous"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			hub.logger.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, subject, typeid.NewClientID())
		hub.Register(client)

		ctx := r.Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)
	}
}
