package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Holk-VB/riichiBackend/broadcast"
	"github.com/Holk-VB/riichiBackend/game"
	"github.com/Holk-VB/riichiBackend/logger"
	"github.com/Holk-VB/riichiBackend/monitor"
	"github.com/Holk-VB/riichiBackend/network"
	"github.com/Holk-VB/riichiBackend/persistence"
	riichi_rpc "github.com/Holk-VB/riichiBackend/rpc"
	"github.com/Holk-VB/riichiBackend/services"
	"github.com/Holk-VB/riichiBackend/session"
	"github.com/Holk-VB/riichiBackend/timer"
)

type GameServer struct {
	addr           string
	upgrader       websocket.Upgrader
	gameManager    *game.Manager
	sessionManager *session.Manager
	gameService    *services.GameService
	broadcaster    broadcast.Broadcaster
	rpcServer      *riichi_rpc.Server
	mon            *monitor.Monitor
	shutdownChan   chan struct{}
}

func NewGameServer(addr, rpcAddr string, db persistence.Database, timers *timer.Manager, callWait time.Duration, mon *monitor.Monitor) *GameServer {
	s := &GameServer{
		addr:           addr,
		gameManager:    game.NewManager(),
		sessionManager: session.NewManager(),
		mon:            mon,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.broadcaster = broadcast.NewGameBroadcaster(s.gameManager, s.sessionManager)
	s.gameService = services.NewGameService(s.gameManager, db, timers, s.broadcaster, callWait)

	rpcServer, err := riichi_rpc.NewServer(rpcAddr, riichi_rpc.NewAdminService(s.gameService))
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)
		s.sessionManager.Remove(sess.ID)
		s.mon.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			started := time.Now()
			s.mon.IncMessagesReceived()
			s.handlePacket(sess, packet)
			s.mon.ObserveMessageLatency(time.Since(started))
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
		return
	case network.MsgTypeAuth:
		s.handleAuth(sess, packet)
		return
	}

	if !sess.Authenticated() {
		s.sendError(sess, network.CodeUnauthorized, "authenticate first")
		return
	}

	switch packet.MsgID {
	case network.MsgTypeCreateGame:
		s.handleCreateGame(sess, packet)
	case network.MsgTypeJoinGame:
		s.handleJoinGame(sess, packet)
	case network.MsgTypeLeaveGame:
		s.handleLeaveGame(sess)
	case network.MsgTypeListGames:
		s.handleListGames(sess)
	case network.MsgTypeGetView:
		s.handleGetView(sess)
	case network.MsgTypeDiscardTile:
		s.handleDiscard(sess, packet)
	case network.MsgTypeSendCall:
		s.handleSendCall(sess, packet)
	case network.MsgTypePlayerStats:
		s.handlePlayerStats(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

func (s *GameServer) handleAuth(sess *session.Session, packet *network.Packet) {
	var req network.AuthRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil || req.UserID == 0 {
		s.sendError(sess, network.CodeBadRequest, "invalid auth request")
		return
	}

	sess.Authenticate(req.UserID, req.Username)
	sess.SendJSON(network.MsgTypeAuth, req)
	logger.Log.Infow("session authenticated", "session", sess.ID, "user", req.UserID)
}

func (s *GameServer) handleCreateGame(sess *session.Session, packet *network.Packet) {
	var req network.CreateGameRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, network.CodeBadRequest, "invalid create request")
			return
		}
	}

	g := s.gameService.CreateGame(req.Seed)
	if _, err := s.gameService.JoinGame(sess.UserID, sess.Username, g.ID); err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	sess.JoinGame(g.ID)
	s.mon.SetActiveGames(s.gameService.GameCount())

	g.Lock()
	summary := broadcast.GameSummary(g)
	g.Unlock()
	sess.SendJSON(network.MsgTypeCreateGame, summary)
}

func (s *GameServer) handleJoinGame(sess *session.Session, packet *network.Packet) {
	var req network.JoinGameRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, network.CodeBadRequest, "invalid join request")
			return
		}
	}

	g, err := s.gameService.JoinGame(sess.UserID, sess.Username, req.GameID)
	if err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	sess.JoinGame(g.ID)
	s.mon.SetActiveGames(s.gameService.GameCount())

	// The joiner missed the sync pushed during seating; answer with their
	// personal view instead.
	view, err := s.gameService.View(sess.UserID, g.ID)
	if err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	sess.SendJSON(network.MsgTypeJoinGame, view)
}

func (s *GameServer) handleLeaveGame(sess *session.Session) {
	gameID := sess.CurrentGame()
	if gameID == "" {
		s.sendError(sess, network.CodeBadRequest, "not in a game")
		return
	}

	if err := s.gameService.LeaveGame(sess.UserID, gameID); err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	sess.LeaveGame()
	s.mon.SetActiveGames(s.gameService.GameCount())
	sess.SendJSON(network.MsgTypeLeaveGame, map[string]string{"game_id": gameID})
}

func (s *GameServer) handleListGames(sess *session.Session) {
	sess.SendJSON(network.MsgTypeListGames, s.gameService.ListGames())
}

func (s *GameServer) handleGetView(sess *session.Session) {
	gameID := sess.CurrentGame()
	if gameID == "" {
		s.sendError(sess, network.CodeBadRequest, "not in a game")
		return
	}

	view, err := s.gameService.View(sess.UserID, gameID)
	if err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	sess.SendJSON(network.MsgTypeGetView, view)
}

func (s *GameServer) handleDiscard(sess *session.Session, packet *network.Packet) {
	var req network.DiscardRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.CodeBadRequest, "invalid discard request")
		return
	}

	gameID := sess.CurrentGame()
	if gameID == "" {
		s.sendError(sess, network.CodeBadRequest, "not in a game")
		return
	}

	if err := s.gameService.Discard(sess.UserID, gameID, req.TileID); err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	s.mon.IncDiscards()
}

func (s *GameServer) handleSendCall(sess *session.Session, packet *network.Packet) {
	var req network.CallRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, network.CodeBadRequest, "invalid call request")
		return
	}

	gameID := sess.CurrentGame()
	if gameID == "" {
		s.sendError(sess, network.CodeBadRequest, "not in a game")
		return
	}

	call := game.Call{Type: req.Type, Suit: req.Suit, Name: req.Name}
	if err := s.gameService.CommitCall(sess.UserID, gameID, call); err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	s.mon.IncCalls(call.Type)
}

func (s *GameServer) handlePlayerStats(sess *session.Session, packet *network.Packet) {
	req := network.StatsRequest{UserID: sess.UserID}
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, network.CodeBadRequest, "invalid stats request")
			return
		}
	}

	stats, err := s.gameService.PlayerStats(req.UserID)
	if err != nil {
		s.sendError(sess, s.errorCode(err), err.Error())
		return
	}
	sess.SendJSON(network.MsgTypePlayerStats, stats)
}

func (s *GameServer) sendError(sess *session.Session, code int, message string) {
	sess.SendJSON(network.MsgTypeError, network.ErrorResponse{Code: code, Message: message})
}

func (s *GameServer) errorCode(err error) int {
	switch err {
	case broadcast.ErrGameNotFound, persistence.ErrRecordNotFound:
		return network.CodeNotFound
	case game.ErrGameFull, game.ErrAlreadyInGame:
		return network.CodeConflict
	case game.ErrIllegalCall, game.ErrNotPlayersTile, game.ErrInvalidStateTransition,
		game.ErrNotInGame, game.ErrWallExhausted:
		return network.CodeBadRequest
	default:
		return network.CodeInternal
	}
}
