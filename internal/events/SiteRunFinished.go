package events

var SiteRunFinishedTopic = "SiteRunFinishedEvent"

// SiteRunFinished is published after a site pipeline completes a cycle.
type SiteRunFinished struct {
	Site    string
	NewIDs  []string
	Fetched int
	Failed  int
	Removed int
}
