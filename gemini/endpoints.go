package gemini

import "log"

var logger = log.New(log.Writer(), "[gemini] ", log.LstdFlags)

const (
	productionRestURL = "https://api.gemini.com"
	sandboxRestURL    = "https://api.sandbox.gemini.com"
	productionWsURL   = "wss://api.gemini.com"
	sandboxWsURL      = "wss://api.sandbox.gemini.com"
)

func restBaseURL(sandbox bool) string {
	if sandbox {
		return sandboxRestURL
	}
	return productionRestURL
}

func wsBaseURL(sandbox bool) string {
	if sandbox {
		return sandboxWsURL
	}
	return productionWsURL
}
