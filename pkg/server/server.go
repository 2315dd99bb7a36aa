// Package server exposes the wallet core over HTTP: REST routes for every
// session and split operation, plus a websocket stream of state-change
// events for UIs that subscribe rather than poll.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"cwallet/pkg/chains"
	"cwallet/pkg/ledger"
	"cwallet/pkg/models"
	"cwallet/pkg/store"
	"cwallet/pkg/utils"
	"cwallet/pkg/wallet"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server drives the orchestrator and ledger on behalf of a remote UI.
type Server struct {
	orchestrator *wallet.Orchestrator
	ledger       *ledger.Ledger
	profiles     *store.ProfileStore

	engine  *gin.Engine
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewServer wires the routes to the core.
func NewServer(o *wallet.Orchestrator, l *ledger.Ledger, profiles *store.ProfileStore) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		orchestrator: o,
		ledger:       l,
		profiles:     profiles,
		engine:       gin.New(),
		clients:      make(map[*websocket.Conn]bool),
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api/v1")
	{
		session := api.Group("/session")
		{
			session.GET("", s.handleGetSession)
			session.POST("/connect", s.handleConnect)
			session.POST("/address", s.handleSubmitAddress)
			session.POST("/disconnect", s.handleDisconnect)
			session.POST("/refresh", s.handleRefresh)
		}

		splits := api.Group("/splits")
		{
			splits.GET("", s.handleListSplits)
			splits.POST("", s.handleCreateSplit)
			splits.GET("/:id", s.handleGetSplit)
			splits.POST("/:id/members/:index/paid", s.handleMarkPaid)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", s.handleGetProfile)
			profile.PUT("", s.handleUpdateProfile)
		}
	}

	s.engine.GET("/ws", s.handleWS)
}

// Start listens on addr and bridges core events to websocket clients until
// the server exits.
func (s *Server) Start(host string, port int) error {
	go s.listenToEvents()
	return s.engine.Run(fmt.Sprintf("%s:%d", host, port))
}

type sessionView struct {
	models.Session
	ChainName string `json:"chain_name"`
}

func (s *Server) sessionView() sessionView {
	session := s.orchestrator.Session()
	return sessionView{Session: session, ChainName: chains.Name(session.ChainID)}
}

func (s *Server) handleGetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessionView())
}

func (s *Server) handleConnect(c *gin.Context) {
	outcome, err := s.orchestrator.Connect(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"outcome":     outcome,
		"install_url": s.orchestrator.InstallURL(),
		"session":     s.sessionView(),
	})
}

func (s *Server) handleSubmitAddress(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.orchestrator.SubmitAddress(c.Request.Context(), req.Address); err != nil {
		status := http.StatusConflict
		if errors.Is(err, wallet.ErrInvalidAddress) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.sessionView())
}

func (s *Server) handleDisconnect(c *gin.Context) {
	if err := s.orchestrator.Disconnect(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.sessionView())
}

func (s *Server) handleRefresh(c *gin.Context) {
	if err := s.orchestrator.Refresh(c.Request.Context()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.sessionView())
}

type splitView struct {
	models.SplitPayment
	Share string `json:"share"`
}

func toSplitView(sp models.SplitPayment) splitView {
	return splitView{SplitPayment: sp, Share: utils.FormatAmount(ledger.ShareOf(sp))}
}

func (s *Server) handleListSplits(c *gin.Context) {
	var list []models.SplitPayment
	if c.Query("all") == "true" {
		list = s.ledger.Splits()
	} else {
		list = s.ledger.ActiveSplits()
	}
	views := make([]splitView, 0, len(list))
	for _, sp := range list {
		views = append(views, toSplitView(sp))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) handleCreateSplit(c *gin.Context) {
	var req struct {
		Title       string               `json:"title" binding:"required"`
		TotalAmount float64              `json:"total_amount" binding:"required"`
		Members     []ledger.MemberInput `json:"members"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	split, err := s.ledger.Create(req.Title, req.TotalAmount, req.Members)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ledger.ErrNoSession) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toSplitView(split))
}

func (s *Server) handleGetSplit(c *gin.Context) {
	split, err := s.ledger.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSplitView(split))
}

func (s *Server) handleMarkPaid(c *gin.Context) {
	var index int
	if _, err := fmt.Sscanf(c.Param("index"), "%d", &index); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid participant index"})
		return
	}
	split, err := s.ledger.MarkPaid(c.Param("id"), index)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSplitView(split))
}

func (s *Server) handleGetProfile(c *gin.Context) {
	profile, err := s.profiles.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req struct {
		DisplayName string `json:"display_name"`
		AvatarRef   string `json:"avatar_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, err := s.profiles.Update(req.DisplayName, req.AvatarRef)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.broadcast(wallet.Event{Type: wallet.EventProfileUpdated, Data: profile})
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
	}()

	// Send initial state
	initial := map[string]interface{}{
		"type": "initial",
		"data": map[string]interface{}{
			"session": s.sessionView(),
			"splits":  s.ledger.ActiveSplits(),
		},
	}
	_ = conn.WriteJSON(initial)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (s *Server) listenToEvents() {
	sessionSub := s.orchestrator.Subscribe()
	defer s.orchestrator.Unsubscribe(sessionSub)
	splitSub := s.ledger.Subscribe()
	defer s.ledger.Unsubscribe(splitSub)

	for {
		select {
		case event, ok := <-sessionSub:
			if !ok {
				return
			}
			s.broadcast(event)
		case event, ok := <-splitSub:
			if !ok {
				return
			}
			s.broadcast(event)
		}
	}
}

func (s *Server) broadcast(event wallet.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for client := range s.clients {
		if err := client.WriteJSON(event); err != nil {
			_ = client.Close()
			delete(s.clients, client)
		}
	}
}
