package events

const (
	StreamName   = "QUOTIENT_EVENTS"
	StreamMaxAge = "720h" // 30 days, matching quote validity
)

func SubjectSessionCreated(sessionID string) string { return "quotes.session." + sessionID + ".created" }
func SubjectSessionScored(sessionID string) string  { return "quotes.session." + sessionID + ".scored" }
