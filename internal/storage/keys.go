package storage

import "strings"

const GlobalKeyPrefix = "ctassess"

// Storage keys. Each component owns its keys exclusively; a writer for one
// domain must never clobber another's key.
var (
	KeyQuestions     = Key("questions", "list")
	KeyResults       = Key("results", "archive")
	KeyClientID      = Key("google", "client_id")
	KeySpreadsheetID = Key("google", "spreadsheet_id")
	KeyHomepage      = Key("settings", "homepage")
	KeyAdminPassword = Key("settings", "admin_password")
)

// Key builds a namespaced storage key from its path segments.
func Key(segments ...string) string {
	return strings.Join(append([]string{GlobalKeyPrefix}, segments...), ":")
}
