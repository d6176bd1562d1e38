package routes

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultGroup is the display group for routes that carry no source
// metadata.
const DefaultGroup = "Routes"

var (
	titleCaser    = cases.Title(language.English)
	wordSeparator = strings.NewReplacer("-", " ", "_", " ")
)

// GroupName derives the display group for a route from its source file
// name: "auth.ts" becomes "Auth", "user-management.ts" becomes
// "User Management".
func GroupName(r Route) string {
	if r.Metadata == nil || r.Metadata.SourceName == "" {
		return DefaultGroup
	}
	base := strings.ReplaceAll(r.Metadata.SourceName, ".ts", "")
	base = strings.ReplaceAll(base, ".js", "")
	words := strings.Fields(wordSeparator.Replace(base))
	for i, w := range words {
		words[i] = titleCaser.String(w)
	}
	return strings.Join(words, " ")
}

// EntryName derives the display name for a route's entry from its method
// and path: POST /api/auth/token becomes "Generate Auth Token", GET
// /api/users becomes "Get Users". Health and verification endpoints get
// fixed names with no verb prefix.
func EntryName(r Route) string {
	var segments []string
	for _, p := range strings.Split(r.FullPath, "/") {
		if p != "" && p != "api" {
			segments = append(segments, p)
		}
	}
	if len(segments) == 0 {
		return string(r.Method) + " Root"
	}

	readable := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			// Path parameters keep their casing: ":itemId" -> "{itemId}".
			readable = append(readable, "{"+seg[1:]+"}")
			continue
		}
		words := strings.Fields(wordSeparator.Replace(seg))
		for i, w := range words {
			words[i] = titleCaser.String(w)
		}
		readable = append(readable, strings.Join(words, " "))
	}
	name := strings.Join(readable, " ")

	lower := strings.ToLower(name)
	if strings.Contains(lower, "health") {
		return "Health Check"
	}
	if strings.Contains(lower, "verify") {
		return "Verify " + strings.TrimSpace(strings.ReplaceAll(name, "Verify", ""))
	}
	return verbPrefix(r.Method, len(segments)) + " " + name
}

func verbPrefix(m Method, segmentCount int) string {
	switch m {
	case MethodGet:
		return "Get"
	case MethodPost:
		if segmentCount == 1 {
			return "Create"
		}
		return "Generate"
	case MethodPut, MethodPatch:
		return "Update"
	case MethodDelete:
		return "Delete"
	}
	return string(m)
}
