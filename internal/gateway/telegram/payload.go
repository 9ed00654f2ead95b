package telegram

import "strings"

// Callback payloads are "action:value". The value may itself contain colons
// (account ids often do), so only the first separator counts.
func EncodePayload(action, value string) string {
	return action + ":" + value
}

func ParsePayload(data string) (action, value string, ok bool) {
	action, value, ok = strings.Cut(data, ":")
	if !ok || action == "" {
		return "", "", false
	}
	return action, value, true
}
