package utils

import (
	"log"
	"strings"
)

// LogEvent writes one line in the module/action format shared by every
// service. Messages carry references and counts, never passenger data.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}
