package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/thewug/eventmaster/auth"
	"github.com/thewug/eventmaster/store"
)

// Server is the HTTP face of one Event.
type Server struct {
	Event        *store.Event
	Hub          *RaffleHub
	DefaultPrize string
	Logger       *slog.Logger

	// Now is stamped into export file names.
	Now func() time.Time
}

// State is everything a freshly loaded page needs.
type State struct {
	Type         string              `json:"type"`
	Participants []store.Participant `json:"participants"`
	Duplicates   []string            `json:"duplicates"`
	Draw         store.DrawStatus    `json:"draw"`
	Groups       []store.Group       `json:"groups"`
	DefaultPrize string              `json:"default_prize"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Handler wires every route onto a fresh mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+PATH_HOME+"{$}", s.Home)
	mux.HandleFunc("GET "+PATH_STATE, s.GetState)
	mux.HandleFunc("GET "+PATH_WEBSOCKET, s.Screen)
	mux.HandleFunc("POST "+PATH_LOGIN, s.Login)

	mux.Handle("POST "+PATH_NAMES, s.operatorOnly(s.ImportText))
	mux.Handle("POST "+PATH_NAMES_UPLOAD, s.operatorOnly(s.ImportFile))
	mux.Handle("POST "+PATH_NAMES_JSON, s.operatorOnly(s.ImportJSON))
	mux.Handle("POST "+PATH_NAMES_DEMO, s.operatorOnly(s.ImportDemo))
	mux.Handle("POST "+PATH_NAMES_DEDUPE, s.operatorOnly(s.Dedupe))
	mux.Handle("POST "+PATH_DRAW, s.operatorOnly(s.Draw))
	mux.Handle("POST "+PATH_DRAW_RESET, s.operatorOnly(s.ResetHistory))
	mux.Handle("POST "+PATH_GROUPS, s.operatorOnly(s.MakeGroups))
	mux.HandleFunc("GET "+PATH_GROUPS_CSV, s.ExportGroups)

	return Logging(s.Logger, mux)
}

func (s *Server) state() State {
	participants := s.Event.Participants()
	return State{
		Type:         "state",
		Participants: participants,
		Duplicates:   store.Duplicates(participants),
		Draw:         s.Event.DrawStatus(),
		Groups:       s.Event.Groups(),
		DefaultPrize: s.DefaultPrize,
	}
}

func (s *Server) GetState(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) Screen(w http.ResponseWriter, req *http.Request) {
	s.Hub.Serve(w, req, s.state())
}

func (s *Server) Login(w http.ResponseWriter, req *http.Request) {
	session, err := auth.Login(req.FormValue("operator"), req.FormValue("password"))
	if err != nil {
		s.Logger.Warn("operator login refused", "remote", req.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "密碼錯誤"})
		return
	}

	if err := auth.Put(w, session); err != nil {
		s.Logger.Error("write session cookie", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"operator": session.Operator})
}

func (s *Server) operatorOnly(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if auth.Required() && auth.Get(req) == nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "請先登入"})
			return
		}
		next(w, req)
	})
}

func (s *Server) rosterReply(w http.ResponseWriter, participants []store.Participant) {
	writeJSON(w, http.StatusOK, Roster{
		Type:         "roster",
		Participants: participants,
		Duplicates:   store.Duplicates(participants),
	})
}

func (s *Server) ImportText(w http.ResponseWriter, req *http.Request) {
	names := store.ParseText(req.FormValue("names"))
	participants := s.Event.ImportNames(names)
	s.Logger.Info("names imported", "source", "text", "count", len(participants))
	s.rosterReply(w, participants)
}

func (s *Server) ImportFile(w http.ResponseWriter, req *http.Request) {
	req.Body = http.MaxBytesReader(w, req.Body, maxRosterBytes+4096)
	file, _, err := req.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "請選擇 CSV 或 TXT 檔案"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxRosterBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	names, err := store.ParseFile(data)
	if err != nil {
		s.advise(w, err)
		return
	}

	participants := s.Event.ImportNames(names)
	s.Logger.Info("names imported", "source", "file", "count", len(participants))
	s.rosterReply(w, participants)
}

func (s *Server) ImportJSON(w http.ResponseWriter, req *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, maxRosterBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	names, err := store.ParseJSON(data)
	if err != nil {
		s.advise(w, err)
		return
	}

	participants := s.Event.ImportNames(names)
	s.Logger.Info("names imported", "source", "json", "count", len(participants))
	s.rosterReply(w, participants)
}

func (s *Server) ImportDemo(w http.ResponseWriter, req *http.Request) {
	s.rosterReply(w, s.Event.UseDemo())
}

func (s *Server) Dedupe(w http.ResponseWriter, req *http.Request) {
	removed := s.Event.RemoveDuplicates()
	participants := s.Event.Participants()
	s.Logger.Info("duplicates removed", "removed", removed, "remaining", len(participants))

	writeJSON(w, http.StatusOK, struct {
		Roster
		Removed int `json:"removed"`
	}{
		Roster: Roster{
			Type:         "roster",
			Participants: participants,
			Duplicates:   store.Duplicates(participants),
		},
		Removed: removed,
	})
}

func (s *Server) Draw(w http.ResponseWriter, req *http.Request) {
	prize := strings.TrimSpace(req.FormValue("prize"))
	if prize == "" {
		prize = s.DefaultPrize
	}
	allow := formBool(req.FormValue("allow_duplicates"))

	if err := s.Event.StartDraw(prize, allow); err != nil {
		s.advise(w, err)
		return
	}

	s.Logger.Info("draw started", "prize", prize, "allow_duplicates", allow)
	writeJSON(w, http.StatusAccepted, s.Event.DrawStatus())
}

func (s *Server) ResetHistory(w http.ResponseWriter, req *http.Request) {
	s.Event.ResetHistory()
	s.Logger.Info("winner history cleared")
	writeJSON(w, http.StatusOK, s.Event.DrawStatus())
}

func (s *Server) MakeGroups(w http.ResponseWriter, req *http.Request) {
	mode := store.ParseGroupMode(req.FormValue("mode"))
	value := store.ParseGroupingValue(req.FormValue("value"))

	groups, err := s.Event.GenerateGroups(mode, value)
	if err != nil {
		s.advise(w, err)
		return
	}

	s.Logger.Info("groups generated", "mode", string(mode), "value", value, "groups", len(groups))
	writeJSON(w, http.StatusOK, Groups{Type: "groups", Groups: groups})
}

func (s *Server) ExportGroups(w http.ResponseWriter, req *http.Request) {
	groups := s.Event.Groups()
	if len(groups) == 0 {
		s.advise(w, store.ErrNoGroups)
		return
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	w.Header().Set("Content-Type", CSV_CONTENT_TYPE)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": ExportFilename(now()),
	}))
	if err := WriteGroupsCSV(w, groups); err != nil {
		s.Logger.Error("write groups csv", "error", err)
	}
}

// advise turns the store's advisory errors into a message for the host.
// State is untouched in every case.
func (s *Server) advise(w http.ResponseWriter, err error) {
	status, message := http.StatusConflict, ""
	switch {
	case errors.Is(err, store.ErrEmptyParticipants):
		message = "請先匯入名單"
	case errors.Is(err, store.ErrNoEligibleWinners):
		message = "所有人都已經中過獎了！"
	case errors.Is(err, store.ErrDrawInProgress):
		message = "正在開獎..."
	case errors.Is(err, store.ErrNoGroups):
		message = "尚未產生分組結果"
	case errors.Is(err, store.ErrInvalidNames):
		status, message = http.StatusBadRequest, err.Error()
	default:
		s.Logger.Error("unexpected error", "error", err)
		status, message = http.StatusInternalServerError, "internal error"
	}

	s.Logger.Debug("request refused", "reason", err.Error())
	writeJSON(w, status, errorBody{Error: message})
}

func formBool(v string) bool {
	if v == "on" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
