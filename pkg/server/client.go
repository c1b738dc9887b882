package server

import (
	_ "embed"
	"encoding/json"
)

//go:embed client.js
var clientSource string

// Styles is the default widget stylesheet.
//
//go:embed styles.css
var Styles string

// ClientScript returns the thin client bound to routes under basePath.
func ClientScript(basePath string) string {
	base, _ := json.Marshal(basePath)
	return "(" + clientSource + ")(" + string(base) + ");"
}
