package web

import (
	"html/template"
	"net/http"
)

var homePage = template.Must(template.New("homepage").Parse(
	`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>HR Event Master</title></head><body>
<h1>HR Event Master</h1>

<section id="names">
<h2>匯入人員名單</h2>
<form method="post" action="{{.Paths.Names}}" data-async>
<textarea name="names" rows="8" cols="30" placeholder="例如：&#10;王小明&#10;李大華&#10;陳小姐"></textarea>
<button>套用名單</button>
</form>
<form method="post" action="{{.Paths.Upload}}" enctype="multipart/form-data" data-async>
<input type="file" name="file" accept=".csv,.txt"><button>上傳 CSV / TXT</button>
</form>
<form method="post" action="{{.Paths.Demo}}" data-async><button>試用模擬名單</button></form>
<h3>目前名單 (<span id="count">0</span> 人)</h3>
<div id="dupes" hidden>發現 <span id="dupe-count"></span> 個重複姓名
<form method="post" action="{{.Paths.Dedupe}}" data-async><button>移除重複</button></form></div>
<ul id="roster"></ul>
</section>

<section id="draw">
<h2>抽籤大獎</h2>
<div id="stage">?</div>
<form method="post" action="{{.Paths.Draw}}" data-async>
<label>獎品名稱 <input name="prize" value="{{.DefaultPrize}}"></label>
<label><input type="checkbox" name="allow_duplicates"> 允許重複中獎</label>
<button id="draw-button">開始抽籤</button>
</form>
<h3>中獎紀錄</h3>
<ol id="history"></ol>
<form method="post" action="{{.Paths.Reset}}" data-async><button>清空紀錄</button></form>
</section>

<section id="grouping">
<h2>團隊分組</h2>
<form method="post" action="{{.Paths.Groups}}" data-async>
<select name="mode"><option value="count">設定分組總數</option><option value="size">設定每組人數</option></select>
<input type="number" name="value" min="1" value="2">
<button>隨機分組</button>
</form>
<a href="{{.Paths.CSV}}">導出 CSV</a>
<div id="groups"></div>
</section>

<script>
const $ = (id) => document.getElementById(id);
function li(text) { const e = document.createElement("li"); e.textContent = text; return e; }
function roster(m) {
  $("count").textContent = m.participants ? m.participants.length : 0;
  $("roster").replaceChildren(...(m.participants || []).map(p => li(p.name)));
  const d = m.duplicates || [];
  $("dupes").hidden = d.length === 0;
  $("dupe-count").textContent = d.length;
}
function history(h) { $("history").replaceChildren(...(h || []).map(r => li(r.prize + "：" + r.name))); }
function groups(gs) {
  $("groups").replaceChildren(...(gs || []).map(g => {
    const box = document.createElement("div");
    const title = document.createElement("h4");
    title.textContent = g.group_name + " (" + g.members.length + " 人)";
    const ul = document.createElement("ul");
    ul.replaceChildren(...g.members.map(m => li(m.name)));
    box.replaceChildren(title, ul);
    return box;
  }));
}
function handle(m) {
  switch (m.type) {
  case "state": roster(m); history(m.draw.history); groups(m.groups);
    $("stage").textContent = m.draw.drawing ? m.draw.rolling : (m.draw.winner ? m.draw.winner.name : "?");
    $("draw-button").disabled = m.draw.drawing; break;
  case "roster": roster(m); break;
  case "rolling": $("stage").textContent = m.name; $("draw-button").disabled = true; break;
  case "winner": $("stage").textContent = m.name + " 恭喜獲獎！"; $("draw-button").disabled = false;
    fetch("{{.Paths.State}}").then(r => r.json()).then(s => history(s.draw.history)); break;
  case "history": history(m.history); if (m.history.length === 0) $("stage").textContent = "?"; break;
  case "groups": groups(m.groups); break;
  }
}
document.querySelectorAll("form[data-async]").forEach(f => f.addEventListener("submit", async (ev) => {
  ev.preventDefault();
  const r = await fetch(f.action, { method: "POST", body: new FormData(f) });
  const body = await r.json();
  if (!r.ok) { alert(body.error); return; }
  if (body.type) handle(body);
  if (body.history) history(body.history);
}));
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "{{.Paths.Socket}}");
ws.onmessage = (ev) => handle(JSON.parse(ev.data));
</script>
</body></html>`,
))

type homePaths struct {
	Names, Upload, Demo, Dedupe, Draw, Reset, Groups, CSV, State, Socket string
}

type homeData struct {
	Paths        homePaths
	DefaultPrize string
}

func (s *Server) Home(w http.ResponseWriter, req *http.Request) {
	data := homeData{
		Paths: homePaths{
			Names:  PATH_NAMES,
			Upload: PATH_NAMES_UPLOAD,
			Demo:   PATH_NAMES_DEMO,
			Dedupe: PATH_NAMES_DEDUPE,
			Draw:   PATH_DRAW,
			Reset:  PATH_DRAW_RESET,
			Groups: PATH_GROUPS,
			CSV:    PATH_GROUPS_CSV,
			State:  PATH_STATE,
			Socket: PATH_WEBSOCKET,
		},
		DefaultPrize: s.DefaultPrize,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homePage.Execute(w, data); err != nil {
		s.Logger.Error("render home page", "error", err)
	}
}
