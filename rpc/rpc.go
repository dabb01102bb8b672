package rpc

import (
	"net"
	"net/rpc"

	"github.com/Holk-VB/riichiBackend/logger"
	"github.com/Holk-VB/riichiBackend/models"
	"github.com/Holk-VB/riichiBackend/services"
)

// Server manages the RPC listener for the admin surface.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer registers the admin service and opens the listener.
func NewServer(addr string, admin *AdminService) (*Server, error) {
	if err := rpc.Register(admin); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes read-only game queries over net/rpc, for operator
// tooling. Methods follow the net/rpc signature rules.
type AdminService struct {
	games *services.GameService
}

func NewAdminService(games *services.GameService) *AdminService {
	return &AdminService{games: games}
}

type ListGamesArgs struct{}

type ListGamesReply struct {
	Games []models.GameSummary
}

func (a *AdminService) ListGames(args *ListGamesArgs, reply *ListGamesReply) error {
	reply.Games = a.games.ListGames()
	return nil
}

type PlayerStatsArgs struct {
	UserID int64
}

type PlayerStatsReply struct {
	Stats *models.PlayerStats
}

func (a *AdminService) GetPlayerStats(args *PlayerStatsArgs, reply *PlayerStatsReply) error {
	stats, err := a.games.PlayerStats(args.UserID)
	if err != nil {
		return err
	}
	reply.Stats = stats
	return nil
}

type GameViewArgs struct {
	GameID string
	UserID int64
}

type GameViewReply struct {
	View *models.GameView
}

// GetGameView returns the game as the given user sees it. A zero UserID
// yields the spectator view with every concealed hand collapsed.
func (a *AdminService) GetGameView(args *GameViewArgs, reply *GameViewReply) error {
	view, err := a.games.View(args.UserID, args.GameID)
	if err != nil {
		return err
	}
	reply.View = view
	return nil
}
