package protocol

import "fmt"

// Kinematics is the 7-float ship block shared by STATE_UPDATE, ALL_UPDATE
// and TIME_SYNC: pos(2), scale(2), rot, vel(2).
type Kinematics struct {
	PosX, PosY     float32
	ScaleX, ScaleY float32
	Rot            float32 // degrees
	VelX, VelY     float32
}

func (k *Kinematics) fields(prefix string) []field {
	return []field{
		{prefix + "pos.x", &k.PosX},
		{prefix + "pos.y", &k.PosY},
		{prefix + "scale.x", &k.ScaleX},
		{prefix + "scale.y", &k.ScaleY},
		{prefix + "rot", &k.Rot},
		{prefix + "vel.x", &k.VelX},
		{prefix + "vel.y", &k.VelY},
	}
}

// Error carries no payload and is ignored by both peers
type Error struct{}

func (*Error) Command() Command { return CmdError }
func (*Error) fields() []field { return nil }

// StateUpdate is a client's own ship, stamped with the client clock
type StateUpdate struct {
	Timestamp float32
	Ship      Kinematics
}

func (*StateUpdate) Command() Command { return CmdStateUpdate }
func (m *StateUpdate) fields() []field {
	return append([]field{{"timestamp", &m.Timestamp}}, m.Ship.fields("")...)
}

// AllUpdate carries every player slot in index order
type AllUpdate struct {
	Timestamp float32
	Players   [MaxPlayers]Kinematics
}

func (*AllUpdate) Command() Command { return CmdAllUpdate }
func (m *AllUpdate) fields() []field { return playerBlock(&m.Timestamp, &m.Players) }

// TimeSync has the AllUpdate layout, but receivers apply it unconditionally
// and adopt Timestamp as their match clock.
type TimeSync struct {
	Timestamp float32
	Players   [MaxPlayers]Kinematics
}

func (*TimeSync) Command() Command { return CmdTimeSync }
func (m *TimeSync) fields() []field { return playerBlock(&m.Timestamp, &m.Players) }

var playerPrefix = [MaxPlayers]string{"player[0].", "player[1].", "player[2].", "player[3]."}

func playerBlock(ts *float32, players *[MaxPlayers]Kinematics) []field {
	fs := make([]field, 0, 1+MaxPlayers*7)
	fs = append(fs, field{"timestamp", ts})
	for i := range players {
		fs = append(fs, players[i].fields(playerPrefix[i])...)
	}
	return fs
}

type ReqFire struct {
	Timestamp float32
}

func (*ReqFire) Command() Command { return CmdReqFire }
func (m *ReqFire) fields() []field { return []field{{"timestamp", &m.Timestamp}} }

// RspFire is relayed to every client; Timestamp is the server clock
type RspFire struct {
	Timestamp float32
	Player    uint32
}

func (*RspFire) Command() Command { return CmdRspFire }
func (m *RspFire) fields() []field {
	return []field{{"timestamp", &m.Timestamp}, {"player", &m.Player}}
}

type AsteroidSpawn struct {
	Timestamp float32
}

func (*AsteroidSpawn) Command() Command { return CmdAsteroidSpawn }
func (m *AsteroidSpawn) fields() []field { return []field{{"timestamp", &m.Timestamp}} }

type AsteroidDestroy struct {
	Slot uint32
}

func (*AsteroidDestroy) Command() Command { return CmdAsteroidDestroy }
func (m *AsteroidDestroy) fields() []field { return []field{{"slot", &m.Slot}} }

type ReqConnect struct{}

func (*ReqConnect) Command() Command { return CmdReqConnect }
func (*ReqConnect) fields() []field { return nil }

type RspConnect struct {
	Player uint32
}

func (*RspConnect) Command() Command { return CmdRspConnect }
func (m *RspConnect) fields() []field { return []field{{"player", &m.Player}} }

type GameStart struct{}

func (*GameStart) Command() Command { return CmdGameStart }
func (*GameStart) fields() []field { return nil }

// Score is one highscore row on the wire. The name stays on the server.
type Score struct {
	Value    int32
	PlayedAt int64 // unix seconds
}

// GameEnd carries the persisted top table followed by this match's scores
type GameEnd struct {
	Highscores [HighscoreSlots]Score
	Scores     [MaxPlayers]int32
}

func (*GameEnd) Command() Command { return CmdGameEnd }
func (m *GameEnd) fields() []field {
	fs := make([]field, 0, HighscoreSlots*2+MaxPlayers)
	for i := range m.Highscores {
		fs = append(fs,
			field{fmt.Sprintf("highscore[%d].score", i), &m.Highscores[i].Value},
			field{fmt.Sprintf("highscore[%d].date", i), &m.Highscores[i].PlayedAt},
		)
	}
	for i := range m.Scores {
		fs = append(fs, field{fmt.Sprintf("score[%d]", i), &m.Scores[i]})
	}
	return fs
}
