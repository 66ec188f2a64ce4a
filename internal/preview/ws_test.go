package preview

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/preview/ws", WSHandler(hub))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/preview/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWSWelcomeIsFirstMessage(t *testing.T) {
	hub := NewHub()
	ws := dialTestHub(t, hub)

	// The welcome is written before the conn joins the hub, so it is
	// always delivered first and never interleaves with a broadcast.
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var hello struct {
		Type      string `json:"type"`
		Transport string `json:"transport"`
	}
	require.NoError(t, json.Unmarshal(msg, &hello))
	require.Equal(t, "welcome", hello.Type)
	require.Equal(t, "websocket", hello.Transport)
}

func TestWSReceivesBroadcast(t *testing.T) {
	hub := NewHub()
	ws := dialTestHub(t, hub)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage() // welcome
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return hub.Stats().Clients == 1
	}, 2*time.Second, 10*time.Millisecond)

	hub.BroadcastJSON(Event{
		Type:    EventStyle,
		SlotID:  "paragraph_font",
		StyleID: "tt-paragraph-font-font-styles",
		CSS:     "p { color: #112233; }",
		At:      time.Now().UTC(),
	})

	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	require.Equal(t, EventStyle, ev.Type)
	require.Equal(t, "paragraph_font", ev.SlotID)
	require.Equal(t, "p { color: #112233; }", ev.CSS)
}
