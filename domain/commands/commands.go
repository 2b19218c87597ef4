package commands

// Commands are the JSON messages clients send over the websocket. Each
// carries its name so the router can decode the right type.

type CreateTable struct {
	SmallBlind int `json:"smallBlind"`
	BigBlind   int `json:"bigBlind"`
	MaxPlayers int `json:"maxPlayers"`
}

func (c CreateTable) Name() string { return "CREATE_TABLE" }

type JoinTable struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	TableID    string `json:"tableId"`
	Seat       int    `json:"seat"`
	BuyIn      int    `json:"buyIn"`
}

func (j JoinTable) Name() string { return "JOIN_TABLE" }

type LeaveTable struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

func (l LeaveTable) Name() string { return "LEAVE_TABLE" }

type StartHand struct {
	TableID string `json:"tableId"`
}

func (s StartHand) Name() string { return "START_HAND" }

type PlayerActs struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
	Action   string `json:"action"`
	Amount   int    `json:"amount"`
}

func (p PlayerActs) Name() string { return "PLAYER_ACTS" }

type GetView struct {
	PlayerID string `json:"playerId"`
	TableID  string `json:"tableId"`
}

func (g GetView) Name() string { return "GET_VIEW" }
