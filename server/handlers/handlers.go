package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lazharichir/holdem/domain"
	"github.com/lazharichir/holdem/domain/commands"
	"github.com/lazharichir/holdem/game"
	"github.com/lazharichir/holdem/server/connection"
)

// CommandRouter routes incoming commands to the appropriate handler
type CommandRouter struct {
	game    *game.Manager
	connMgr *connection.Manager
}

// NewCommandRouter creates a new command router
func NewCommandRouter(game *game.Manager, connMgr *connection.Manager) *CommandRouter {
	return &CommandRouter{
		game:    game,
		connMgr: connMgr,
	}
}

// HandleCommand processes an incoming command message
func (r *CommandRouter) HandleCommand(client *connection.Client, message []byte) error {
	// First determine command type
	var baseCmd struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(message, &baseCmd); err != nil {
		return err
	}

	// Route to appropriate handler based on command type
	switch baseCmd.Name {
	case commands.CreateTable{}.Name():
		var cmd commands.CreateTable
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleCreateTable(client, cmd)

	case commands.JoinTable{}.Name():
		var cmd commands.JoinTable
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleJoinTable(client, cmd)

	case commands.LeaveTable{}.Name():
		var cmd commands.LeaveTable
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleLeaveTable(client, cmd)

	case commands.StartHand{}.Name():
		var cmd commands.StartHand
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.game.StartHand(cmd.TableID)

	case commands.PlayerActs{}.Name():
		var cmd commands.PlayerActs
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handlePlayerActs(client, cmd)

	case commands.GetView{}.Name():
		var cmd commands.GetView
		if err := json.Unmarshal(message, &cmd); err != nil {
			return err
		}
		return r.handleGetView(client, cmd)

	default:
		fmt.Println("unknown command type", baseCmd.Name)
		return errors.New("unknown command type")
	}
}

func (r *CommandRouter) handleCreateTable(client *connection.Client, cmd commands.CreateTable) error {
	if cmd.SmallBlind <= 0 || cmd.BigBlind <= cmd.SmallBlind {
		return errors.New("big blind must exceed a positive small blind")
	}

	maxPlayers := cmd.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = 9
	}

	tableID := r.game.CreateTable(domain.TableConfig{
		MaxPlayers: maxPlayers,
		SmallBlind: cmd.SmallBlind,
		BigBlind:   cmd.BigBlind,
	}, nil)

	response := struct {
		Name    string `json:"name"`
		TableID string `json:"tableId"`
	}{
		Name:    "TABLE_CREATED",
		TableID: tableID,
	}

	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	select {
	case client.Send <- data:
	default:
	}
	return nil
}

func (r *CommandRouter) handleJoinTable(client *connection.Client, cmd commands.JoinTable) error {
	if cmd.PlayerID == "" {
		return errors.New("playerId is required")
	}

	player := domain.NewPlayer(cmd.PlayerID, cmd.PlayerName, cmd.BuyIn)
	if err := r.game.AddPlayer(cmd.TableID, player, cmd.Seat); err != nil {
		return err
	}

	r.connMgr.AddPlayerToClient(client.ID, cmd.PlayerID)
	r.connMgr.AddTableToClient(client.ID, cmd.TableID)
	return nil
}

func (r *CommandRouter) handleLeaveTable(client *connection.Client, cmd commands.LeaveTable) error {
	if err := r.game.RemovePlayer(cmd.TableID, cmd.PlayerID); err != nil {
		return err
	}

	r.connMgr.RemoveTableFromClient(client.ID, cmd.TableID)
	return nil
}

func (r *CommandRouter) handlePlayerActs(client *connection.Client, cmd commands.PlayerActs) error {
	if client.PlayerID != "" && client.PlayerID != cmd.PlayerID {
		return errors.New("cannot act for another player")
	}

	action := domain.Action{
		Type:     domain.ActionType(cmd.Action),
		Amount:   cmd.Amount,
		PlayerID: cmd.PlayerID,
		At:       time.Now(),
	}
	return r.game.ProcessAction(cmd.TableID, action)
}

func (r *CommandRouter) handleGetView(client *connection.Client, cmd commands.GetView) error {
	view, err := r.game.GetPlayerView(cmd.TableID, cmd.PlayerID)
	if err != nil {
		return err
	}

	response := struct {
		Name    string          `json:"name"`
		Payload domain.HandView `json:"payload"`
	}{
		Name:    "HAND_VIEW",
		Payload: view,
	}

	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	select {
	case client.Send <- data:
	default:
	}
	return nil
}
