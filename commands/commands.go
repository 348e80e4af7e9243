package commands

import "fmt"

const (
	CommandStandings     = "standings"
	CommandMatchups      = "matchups"
	CommandPowerRankings = "powerrankings"
	CommandIllness       = "whosgotcovid"
)

// LeagueOption is the name of the string option used to pick a league explicitly.
const LeagueOption = "league"

// LeagueMode says whether a command runs against a league.
type LeagueMode int

const (
	// LeagueNone commands never look up a league.
	LeagueNone LeagueMode = iota
	// LeagueRequired commands fail with fantasy.ErrLeagueNotFound without one.
	LeagueRequired
)

// Definition describes a command to the chat transport.
type Definition struct {
	Name        string
	Description string
	League      LeagueMode
}

var Definitions = []Definition{
	{Name: CommandMatchups, Description: "Fetch this week's matchups", League: LeagueRequired},
	{Name: CommandStandings, Description: "Fetch the current standings", League: LeagueRequired},
	{Name: CommandPowerRankings, Description: "Fetch the latest power rankings", League: LeagueRequired},
	{Name: CommandIllness, Description: "the COVID naughty list", League: LeagueNone},
}

func definition(name string) (Definition, bool) {
	for _, d := range Definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

const (
	matchupsReply  = "this is a matchups response"
	standingsReply = "this is a standings response"

	nobodyReply           = "nobody's on the list right now, nice"
	powerNotImplemented   = "power rankings aren't implemented for sleeper leagues yet"
	unknownCommandMessage = "unknown command: %s"
)

func codeBlock(s string) string {
	return fmt.Sprintf("```\n%s\n```", s)
}
