package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server/connection"
	"github.com/lazharichir/holdem/server/events"
	"github.com/lazharichir/holdem/server/handlers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server represents the WebSocket server
type Server struct {
	game       *game.Manager
	connMgr    *connection.Manager
	cmdRouter  *handlers.CommandRouter
	dispatcher *events.Dispatcher
	defaults   domain.TableConfig
}

// TableResponse represents a table in API responses
type TableResponse struct {
	ID string `json:"id"`
}

// CreateTableRequest represents the request to create a new table
type CreateTableRequest struct {
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	MaxPlayers int `json:"maxPlayers"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// NewServer creates a new poker WebSocket server on top of the game
// manager. The defaults fill in table parameters clients omit.
func NewServer(manager *game.Manager, defaults domain.TableConfig) *Server {
	connMgr := connection.NewManager()
	dispatcher := events.NewDispatcher(connMgr)
	cmdRouter := handlers.NewCommandRouter(manager, connMgr)

	return &Server{
		game:       manager,
		connMgr:    connMgr,
		cmdRouter:  cmdRouter,
		dispatcher: dispatcher,
		defaults:   defaults,
	}
}

// Start begins the server on the specified port
func (s *Server) Start(port string) error {
	// Start connection manager in its own goroutine
	go s.connMgr.Start()

	// Fan the engine's event stream out to connected clients
	go s.dispatcher.Run(s.game.Events())

	// Set up HTTP handlers with CORS middleware
	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/api/tables", corsMiddleware(s.handleGetTables))
	http.HandleFunc("/api/tables/create", corsMiddleware(s.handleCreateTable))

	log.Printf("Starting server on port %s", port)
	return http.ListenAndServe("0.0.0.0:"+port, nil)
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	// Create a new client with a unique ID
	clientID := uuid.NewString()
	log.Printf("New client connected: %s with ID: %s", r.RemoteAddr, clientID)

	client := &connection.Client{
		ID:   clientID,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	// Register with connection manager
	s.connMgr.Register <- client

	// Handle reading and writing in separate goroutines
	go s.readPump(client)
	go s.writePump(client)
}

// readPump reads messages from the WebSocket connection
func (s *Server) readPump(client *connection.Client) {
	defer func() {
		s.connMgr.Unregister <- client
		client.Conn.Close()
	}()

	for {
		_, message, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Error: %v", err)
			}
			break
		}

		// Process the message through the command router
		if err := s.cmdRouter.HandleCommand(client, message); err != nil {
			log.Printf("Error handling command: %v", err)
			s.sendError(client, err)
		}
	}
}

// writePump sends messages to the WebSocket connection
func (s *Server) writePump(client *connection.Client) {
	defer func() {
		client.Conn.Close()
	}()

	for {
		message, ok := <-client.Send
		if !ok {
			// Channel closed
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		err := client.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			log.Printf("Error writing message: %v", err)
			return
		}
	}
}

// sendError reports a rejected command back to its sender.
func (s *Server) sendError(client *connection.Client, cmdErr error) {
	response := struct {
		Name  string `json:"name"`
		Error string `json:"error"`
	}{
		Name:  "COMMAND_REJECTED",
		Error: cmdErr.Error(),
	}

	data, err := json.Marshal(response)
	if err != nil {
		return
	}

	select {
	case client.Send <- data:
	default:
	}
}

// handleGetTables returns a list of all tables
func (s *Server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ids := s.game.ListTables()
	tableResponses := make([]TableResponse, 0, len(ids))
	for _, id := range ids {
		tableResponses = append(tableResponses, TableResponse{ID: id})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tableResponses)
}

// handleCreateTable creates a new table
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var createReq CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	config := s.defaults
	if createReq.SmallBlind > 0 {
		config.SmallBlind = createReq.SmallBlind
	}
	if createReq.BigBlind > 0 {
		config.BigBlind = createReq.BigBlind
	}
	if createReq.MaxPlayers > 0 {
		config.MaxPlayers = createReq.MaxPlayers
	}
	if config.BigBlind <= config.SmallBlind {
		http.Error(w, "Big blind must exceed small blind", http.StatusBadRequest)
		return
	}

	tableID := s.game.CreateTable(config, nil)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(TableResponse{ID: tableID})
}
