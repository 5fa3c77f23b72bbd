package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/PetrosyanDev/armen-cs-teammate/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PromptClient represents a transport connection waiting for rating prompts
type PromptClient struct {
	Conn    *websocket.Conn
	UserID  string
	writeMu sync.Mutex
}

// SafeWriteJSON safely writes JSON data to the client's WebSocket connection
func (pc *PromptClient) SafeWriteJSON(v interface{}) error {
	pc.writeMu.Lock()
	defer pc.writeMu.Unlock()
	return pc.Conn.WriteJSON(v)
}

// Global hub of connected prompt clients
var (
	promptClients = make(map[*PromptClient]bool)
	promptMutex   sync.RWMutex
)

// RegisterPromptClient registers a connection for rating prompt delivery
func RegisterPromptClient(client *PromptClient) {
	promptMutex.Lock()
	defer promptMutex.Unlock()
	promptClients[client] = true
	log.Printf("Prompt client registered. Total clients: %d", len(promptClients))
}

// UnregisterPromptClient removes a connection from the hub
func UnregisterPromptClient(client *PromptClient) {
	promptMutex.Lock()
	defer promptMutex.Unlock()
	delete(promptClients, client)
	client.Conn.Close()
	log.Printf("Prompt client unregistered. Total clients: %d", len(promptClients))
}

// PushRatingPrompt delivers a fired rating prompt to the requester's
// connections. A requester with no open connection simply misses the push;
// the pending event still accepts a rating through the REST endpoint.
func PushRatingPrompt(prompt models.RatingPrompt) {
	promptMutex.RLock()
	defer promptMutex.RUnlock()

	delivered := 0
	for client := range promptClients {
		if client.UserID != prompt.RequesterID {
			continue
		}
		message := map[string]interface{}{
			"type":          "rating_prompt",
			"requesterId":   prompt.RequesterID,
			"candidateName": prompt.CandidateName,
			"text":          prompt.Text,
			"choices":       prompt.Choices,
		}
		if err := client.SafeWriteJSON(message); err != nil {
			log.Printf("Failed to push rating prompt to %s: %v", prompt.RequesterID, err)
			continue
		}
		delivered++
	}
	log.Printf("Rating prompt for %s delivered to %d connection(s)", prompt.RequesterID, delivered)
}

// PromptWebsocketHandler upgrades the connection and keeps it registered
// until the transport disconnects
func PromptWebsocketHandler(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing userId"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &PromptClient{Conn: conn, UserID: userID}
	RegisterPromptClient(client)
	defer UnregisterPromptClient(client)

	// Drain reads until the peer closes; prompts flow one way.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
