package entity

const BotPlayerID = "bot"

type Player struct {
	ID     string `json:"id"`
	Mark   Mark   `json:"mark,omitempty"`
	GameID string `json:"game_id,omitempty"`
}

func NewBotPlayer(gameID string, mark Mark) *Player {
	return &Player{
		ID:     BotPlayerID,
		Mark:   mark,
		GameID: gameID,
	}
}

func (that *Player) IsBot() bool {
	return that.ID == BotPlayerID
}
