package web

const (
	PATH_HOME         = "/"
	PATH_STATE        = "/state"
	PATH_LOGIN        = "/login"
	PATH_NAMES        = "/names"
	PATH_NAMES_UPLOAD = "/names/upload"
	PATH_NAMES_JSON   = "/names/json"
	PATH_NAMES_DEMO   = "/names/demo"
	PATH_NAMES_DEDUPE = "/names/dedupe"
	PATH_DRAW         = "/draw"
	PATH_DRAW_RESET   = "/draw/reset"
	PATH_GROUPS       = "/groups"
	PATH_GROUPS_CSV   = "/groups.csv"
	PATH_WEBSOCKET    = "/ws"
)

// upload limit for roster files and JSON bodies
const maxRosterBytes = 1 << 20
