package internal

// League is the subset of the ESPN league document returned for view=mTeam.
type League struct {
	ID              int      `json:"id"`
	SeasonID        int      `json:"seasonId"`
	ScoringPeriodID int      `json:"scoringPeriodId"`
	Members         []Member `json:"members"`
	Teams           []Team   `json:"teams"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type Team struct {
	ID           int      `json:"id"`
	Abbreviation string   `json:"abbrev"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Nickname     string   `json:"nickname"`
	Owners       []string `json:"owners"`
	PrimaryOwner string   `json:"primaryOwner"`
}
