package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeAuth        = 10
	MsgTypeCreateGame  = 101
	MsgTypeJoinGame    = 102
	MsgTypeLeaveGame   = 103
	MsgTypeListGames   = 104
	MsgTypeGetView     = 105
	MsgTypeDiscardTile = 201
	MsgTypeSendCall    = 202
	MsgTypePlayerStats = 203
)

// send frames and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendJSON(c *websocket.Conn, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return send(c, msgID, data)
}

func handleCommand(c *websocket.Conn, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "auth":
		if len(fields) < 3 {
			log.Println("Usage: auth <userID> <username>")
			return
		}
		userID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			log.Println("Invalid user ID:", fields[1])
			return
		}
		sendJSON(c, MsgTypeAuth, map[string]interface{}{"user_id": userID, "username": fields[2]})
	case "create":
		var seed uint64
		if len(fields) > 1 {
			seed, _ = strconv.ParseUint(fields[1], 10, 64)
		}
		sendJSON(c, MsgTypeCreateGame, map[string]uint64{"seed": seed})
	case "join":
		gameID := ""
		if len(fields) > 1 {
			gameID = fields[1]
		}
		sendJSON(c, MsgTypeJoinGame, map[string]string{"game_id": gameID})
	case "leave":
		send(c, MsgTypeLeaveGame, nil)
	case "list":
		send(c, MsgTypeListGames, nil)
	case "view":
		send(c, MsgTypeGetView, nil)
	case "discard":
		if len(fields) < 2 {
			log.Println("Usage: discard <tileID>")
			return
		}
		tileID, err := strconv.Atoi(fields[1])
		if err != nil {
			log.Println("Invalid tile ID:", fields[1])
			return
		}
		sendJSON(c, MsgTypeDiscardTile, map[string]int{"id": tileID})
	case "call":
		if len(fields) < 2 {
			log.Println("Usage: call <type> [suit] [name]")
			return
		}
		req := map[string]string{"type": fields[1]}
		if len(fields) > 2 {
			req["suit"] = fields[2]
		}
		if len(fields) > 3 {
			req["name"] = fields[3]
		}
		sendJSON(c, MsgTypeSendCall, req)
	case "stats":
		send(c, MsgTypePlayerStats, nil)
	default:
		log.Println("Commands: auth, create, join, leave, list, view, discard, call, stats")
	}
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	log.Println("Client started. Type 'auth <userID> <username>' to begin.")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			handleCommand(c, strings.TrimSpace(text))
		}
	}
}
