package domain

import "fmt"

// Race codes match the flags sent by the game client.
type Race int

const (
	RaceRandom    Race = 0
	RaceHuman     Race = 1
	RaceOrc       Race = 2
	RaceNightElf  Race = 4
	RaceUndead    Race = 8
	RaceTotalRand Race = 16
)

func (r Race) String() string {
	switch r {
	case RaceRandom:
		return "RnD"
	case RaceHuman:
		return "HU"
	case RaceOrc:
		return "OC"
	case RaceNightElf:
		return "NE"
	case RaceUndead:
		return "UD"
	case RaceTotalRand:
		return "TR"
	default:
		return fmt.Sprintf("Race(%d)", int(r))
	}
}

type GameMode int

const (
	GameModeUndefined GameMode = 0
	GameMode1v1       GameMode = 1
	GameMode2v2       GameMode = 2
	GameMode4v4       GameMode = 4
	GameModeFFA       GameMode = 5
)

func (m GameMode) String() string {
	switch m {
	case GameMode1v1:
		return "1v1"
	case GameMode2v2:
		return "2v2"
	case GameMode4v4:
		return "4v4"
	case GameModeFFA:
		return "ffa"
	default:
		return fmt.Sprintf("GameMode(%d)", int(m))
	}
}

type Gateway int

const (
	GatewayUndefined Gateway = 0
	GatewayAmerica   Gateway = 10
	GatewayEurope    Gateway = 20
	GatewayAsia      Gateway = 30
)

func (g Gateway) String() string {
	switch g {
	case GatewayAmerica:
		return "America"
	case GatewayEurope:
		return "Europe"
	case GatewayAsia:
		return "Asia"
	default:
		return fmt.Sprintf("Gateway(%d)", int(g))
	}
}
