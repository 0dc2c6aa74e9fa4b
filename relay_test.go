package relayprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// ============================================================================
//                              测试中继
// ============================================================================

var testUpgrader = websocket.Upgrader{}

// startRelay 启动测试中继，返回 ws:// 地址
//
// handle 处理升级后的连接（nil 表示只读不回）；
// infoDoc 非空时在伴生 HTTP 地址返回元数据文档，否则 404。
func startRelay(t *testing.T, infoDoc string, handle func(conn *websocket.Conn)) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if websocket.IsWebSocketUpgrade(r) {
			conn, err := testUpgrader.Upgrade(w, r, nil)
			if err != nil {
				return
			}
			defer conn.Close()
			if handle != nil {
				handle(conn)
				return
			}
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}

		if infoDoc == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/nostr+json")
		_, _ = w.Write([]byte(infoDoc))
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// ackHandler 读取 EVENT 帧并回复确认帧
func ackHandler(accept bool, message string) func(conn *websocket.Conn) {
	return func(conn *websocket.Conn) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var raw []json.RawMessage
			if json.Unmarshal(data, &raw) != nil || len(raw) < 2 {
				continue
			}
			var label string
			if json.Unmarshal(raw[0], &label) != nil || label != "EVENT" {
				continue
			}
			var ev struct {
				ID string `json:"id"`
			}
			if json.Unmarshal(raw[1], &ev) != nil {
				continue
			}

			ack, _ := json.Marshal([]any{"OK", ev.ID, accept, message})
			if conn.WriteMessage(websocket.TextMessage, ack) != nil {
				return
			}
		}
	}
}

// eoseHandler 对 REQ 帧回复订阅结束帧
func eoseHandler() func(conn *websocket.Conn) {
	return func(conn *websocket.Conn) {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var raw []json.RawMessage
			if json.Unmarshal(data, &raw) != nil || len(raw) < 2 {
				continue
			}
			var label string
			if json.Unmarshal(raw[0], &label) != nil || label != "REQ" {
				continue
			}
			var subID string
			if json.Unmarshal(raw[1], &subID) != nil {
				continue
			}

			eose, _ := json.Marshal([]any{"EOSE", subID})
			if conn.WriteMessage(websocket.TextMessage, eose) != nil {
				return
			}
		}
	}
}
