package protocol

import "fmt"

// Command is the 1-byte identifier every datagram starts with
type Command byte

const (
	CmdError           Command = 0
	CmdStateUpdate     Command = 1  // client -> server, own ship kinematics
	CmdAllUpdate       Command = 2  // server -> client, every ship
	CmdReqFire         Command = 3  // client -> server
	CmdRspFire         Command = 4  // server -> client, relayed shot
	CmdAsteroidSpawn   Command = 5  // server -> client
	CmdAsteroidDestroy Command = 6  // server -> client, by slot index
	CmdReqConnect      Command = 7
	CmdRspConnect      Command = 8
	CmdGameStart       Command = 9
	CmdGameEnd         Command = 10
	CmdTimeSync        Command = 11 // highest authority, overrides receiver state
)

// Protocol constants. GAME_END offsets depend on HighscoreSlots, so it must
// never become a runtime setting.
const (
	MaxPlayers     = 4
	HighscoreSlots = 5
	MaxDatagram    = 1024
)

var commandNames = [...]string{
	CmdError:           "ERROR",
	CmdStateUpdate:     "STATE_UPDATE",
	CmdAllUpdate:       "ALL_UPDATE",
	CmdReqFire:         "REQ_FIRE",
	CmdRspFire:         "RSP_FIRE",
	CmdAsteroidSpawn:   "ASTEROID_SPAWN",
	CmdAsteroidDestroy: "ASTEROID_DESTROY",
	CmdReqConnect:      "REQ_CONNECT",
	CmdRspConnect:      "RSP_CONNECT",
	CmdGameStart:       "GAME_START",
	CmdGameEnd:         "GAME_END",
	CmdTimeSync:        "TIME_SYNC",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("CMD(%d)", byte(c))
}
