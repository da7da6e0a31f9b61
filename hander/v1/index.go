package V1

const index = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <title>English Talk</title>
  <style>
    body { font-family: sans-serif; padding: 20px; max-width: 720px; margin: auto; }
    .screen { display: none; }
    .screen.active { display: block; }
    .choices button { margin: 4px; }
    .choices button.selected { background: #4a90e2; color: #fff; }
    #messages { border: 1px solid #ddd; padding: 10px; height: 320px; overflow-y: auto; }
    .user { text-align: right; color: #333; }
    .assistant { color: #1a5fb4; }
    .correction { color: #c01c28; }
    #status { margin-top: 10px; font-size: 14px; color: green; }
    #notice { margin-top: 10px; color: #c01c28; }
  </style>
</head>
<body>
  <h1>English Talk</h1>

  <div id="home" class="screen active">
    <p>Practice speaking English with an AI teacher.</p>
    <button onclick="navigate('topic')">Start</button>
    <button onclick="navigate('settings')">Settings</button>
  </div>

  <div id="topic" class="screen">
    <h2>Pick a topic</h2>
    <div id="topics" class="choices"></div>
    <button onclick="startChat()">Talk</button>
    <button onclick="navigate('home')">Back</button>
  </div>

  <div id="settings" class="screen">
    <h2>Level</h2>
    <div id="levels" class="choices"></div>
    <h2>Teacher</h2>
    <div id="teachers" class="choices"></div>
    <button onclick="navigate('home')">Back</button>
  </div>

  <div id="chat" class="screen">
    <div id="messages"></div>
    <button id="micBtn" onclick="send({type: 'start'})">🎙️ Speak</button>
    <input id="textInput" placeholder="or type here" />
    <button onclick="sendText()">Send</button>
    <button onclick="send({type: 'reset'})">Reset</button>
    <button onclick="navigate('home')">Home</button>
  </div>

  <div id="status">connecting...</div>
  <div id="notice"></div>

  <script>
    let ws;
    let sessionId;
    let recognition;
    let state = {};

    const api = async (method, path, body) => {
      const resp = await fetch("/v1" + path, {
        method,
        headers: { "Content-Type": "application/json" },
        body: body ? JSON.stringify(body) : undefined,
      });
      const data = await resp.json();
      if (!data.success) {
        document.getElementById("notice").textContent = data.message;
        return null;
      }
      return data.data;
    };

    async function init() {
      const catalog = await api("GET", "/catalog");
      const snap = await api("POST", "/sessions");
      sessionId = snap.id;
      renderChoices("topics", catalog.topics, t => t.icon + " " + t.name, "topic");
      renderChoices("levels", catalog.levels, l => l.name + " (" + l.level + ")", "level");
      renderChoices("teachers", catalog.teachers, t => t.name + " - " + t.bio, "teacher");
      render(snap);
      connect();
    }

    function renderChoices(id, items, label, kind) {
      const box = document.getElementById(id);
      box.innerHTML = "";
      items.forEach(item => {
        const b = document.createElement("button");
        b.textContent = label(item);
        b.dataset.id = item.id;
        b.onclick = async () => {
          const snap = await api("PUT", "/sessions/" + sessionId + "/" + kind, { [kind]: item.id });
          if (snap) render(snap);
        };
        box.appendChild(b);
      });
    }

    function connect() {
      const proto = location.protocol === "https:" ? "wss://" : "ws://";
      ws = new WebSocket(proto + location.host + "/v1/sessions/" + sessionId + "/ws");
      ws.onopen = () => {
        // 声音列表可能是异步加载的
        if (!("speechSynthesis" in window)) {
          send({ type: "playback_unavailable" });
          return;
        }
        reportVoices();
        speechSynthesis.onvoiceschanged = reportVoices;
      };
      ws.onmessage = (event) => handle(JSON.parse(event.data));
      ws.onclose = () => { document.getElementById("status").textContent = "disconnected"; };
    }

    function send(msg) {
      if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg));
    }

    function sendText() {
      const input = document.getElementById("textInput");
      send({ type: "text", text: input.value });
      input.value = "";
    }

    function reportVoices() {
      const voices = speechSynthesis.getVoices().map(v => ({ name: v.name, lang: v.lang }));
      if (voices.length) send({ type: "voices", voices });
    }

    function handle(msg) {
      switch (msg.type) {
        case "state": render(msg.state); break;
        case "message": appendMessage(msg.message); break;
        case "notice": document.getElementById("notice").textContent = msg.text; break;
        case "listen": listen(msg.listen); break;
        case "abort_listen": if (recognition) recognition.abort(); break;
        case "speak": speak(msg.speak); break;
        case "cancel_speech": speechSynthesis.cancel(); break;
      }
    }

    function listen(req) {
      const SR = window.SpeechRecognition || window.webkitSpeechRecognition;
      if (!SR) {
        send({ type: "error", reason: "not-supported" });
        return;
      }
      recognition = new SR();
      recognition.lang = req.lang;
      recognition.continuous = req.continuous;
      recognition.interimResults = req.interimResults;
      recognition.onresult = (e) => send({ type: "result", text: e.results[0][0].transcript });
      recognition.onerror = (e) => send({ type: "error", reason: e.error });
      recognition.onend = () => send({ type: "end" });
      recognition.start();
    }

    function speak(req) {
      speechSynthesis.cancel();
      const u = new SpeechSynthesisUtterance(req.text);
      u.lang = req.lang;
      u.rate = req.rate;
      u.pitch = req.pitch;
      u.volume = req.volume;
      if (req.voice) {
        const v = speechSynthesis.getVoices().find(v => v.name === req.voice);
        if (v) u.voice = v;
      }
      u.onend = () => send({ type: "playback_end" });
      u.onerror = () => send({ type: "playback_end" });
      speechSynthesis.speak(u);
    }

    function render(snap) {
      const screenChanged = state.screen !== snap.screen;
      state = snap;
      document.querySelectorAll(".screen").forEach(s => s.classList.toggle("active", s.id === snap.screen));
      mark("topics", snap.topic);
      mark("levels", snap.level);
      mark("teachers", snap.teacher_id);
      if (screenChanged || snap.messages.length === 0) {
        const box = document.getElementById("messages");
        box.innerHTML = "";
        snap.messages.forEach(appendMessage);
      }
      document.getElementById("micBtn").disabled = snap.state !== "idle";
      document.getElementById("status").textContent =
        snap.state + (snap.repeat_mode ? " (try again)" : "") + " · turns: " + snap.message_count;
    }

    function mark(id, selected) {
      document.querySelectorAll("#" + id + " button").forEach(b => b.classList.toggle("selected", b.dataset.id === selected));
    }

    function appendMessage(m) {
      const box = document.getElementById("messages");
      const div = document.createElement("div");
      div.className = m.role;
      div.textContent = m.content;
      box.appendChild(div);
      box.scrollTop = box.scrollHeight;
    }

    async function navigate(screen) {
      const snap = await api("PUT", "/sessions/" + sessionId + "/screen", { screen });
      if (snap) render(snap);
    }

    async function startChat() {
      document.getElementById("notice").textContent = "";
      const snap = await api("POST", "/sessions/" + sessionId + "/chat");
      if (snap) render(snap);
    }

    init();
  </script>
</body>
</html>
`
