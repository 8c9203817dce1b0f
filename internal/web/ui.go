package web

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"dbops-console/internal/i18n"
)

// uiMessages are the catalog ids substituted into uiHTML as {{id}}.
var uiMessages = []string{
	"app.title",
	"app.subtitle",
	"app.operations_heading",
	"app.operations_subheading",
	"signin.description",
	"signin.email",
	"signin.password",
	"signin.submit",
	"signin.pending",
	"signin.footer",
	"operation.cancel",
	"events.title",
	"events.filter.all",
	"events.view_all",
}

// handleUI serves the embedded UI.
func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	pairs := []string{"{{APP_VERSION}}", html.EscapeString(s.version), "{{LANG}}", html.EscapeString(i18n.Lang())}
	for _, id := range uiMessages {
		pairs = append(pairs, "{{"+id+"}}", html.EscapeString(i18n.T(id)))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, strings.NewReplacer(pairs...).Replace(uiHTML))
}

const uiHTML = `<!DOCTYPE html>
<html lang="{{LANG}}">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{app.title}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #f6f8fb;
    color: #1f2937;
    min-height: 100vh;
  }
  .hidden { display: none !important; }
  .btn {
    border: 1px solid #d1d5db; background: #fff; color: #1f2937;
    padding: 8px 16px; border-radius: 8px; font-size: 14px; font-weight: 500; cursor: pointer;
  }
  .btn:hover { background: #f3f4f6; }
  .btn-primary { background: #0078d4; border-color: #0078d4; color: #fff; }
  .btn-primary:hover { background: #106ebe; }
  .btn-primary:disabled { opacity: 0.7; cursor: default; }

  /* sign-in */
  .signin-wrap { min-height: 100vh; display: flex; align-items: center; justify-content: center; padding: 16px; }
  .signin-card { background: #fff; border-radius: 14px; box-shadow: 0 10px 30px rgba(0,0,0,0.08); width: 100%; max-width: 420px; padding: 32px; }
  .signin-card h1 { font-size: 22px; text-align: center; margin-bottom: 8px; }
  .signin-card .sub { font-size: 13px; color: #6b7280; text-align: center; margin-bottom: 24px; }
  .field { margin-bottom: 16px; }
  .field label { display: block; font-size: 13px; font-weight: 500; margin-bottom: 6px; }
  .field input, .field select, .field textarea {
    width: 100%; border: 1px solid #d1d5db; border-radius: 8px; padding: 10px 12px; font-size: 14px; background: #fff;
  }
  .field textarea { min-height: 80px; resize: vertical; }
  .pw { position: relative; }
  .pw button { position: absolute; right: 6px; top: 6px; border: none; background: none; cursor: pointer; color: #6b7280; padding: 4px 8px; }
  .signin-btn { width: 100%; height: 44px; }
  .spinner { display: inline-block; width: 14px; height: 14px; border: 2px solid rgba(255,255,255,0.3); border-top-color: #fff; border-radius: 50%; animation: spin 0.8s linear infinite; vertical-align: -2px; margin-right: 8px; }
  @keyframes spin { to { transform: rotate(360deg); } }
  .signin-footer { margin-top: 24px; padding-top: 16px; border-top: 1px solid #e5e7eb; font-size: 12px; color: #6b7280; text-align: center; }

  /* console */
  header { background: #0078d4; color: #fff; }
  .header-inner { max-width: 1200px; margin: 0 auto; padding: 16px 24px; display: flex; justify-content: space-between; align-items: center; }
  .header-inner h1 { font-size: 20px; }
  .header-inner .sub { font-size: 12px; opacity: 0.8; }
  .user { display: flex; align-items: center; gap: 12px; text-align: right; }
  .user .name { font-size: 14px; font-weight: 600; text-transform: capitalize; }
  .user .email { font-size: 12px; opacity: 0.8; }
  main { max-width: 1200px; margin: 0 auto; padding: 32px 24px; }
  main h2 { font-size: 22px; margin-bottom: 4px; }
  main .lead { color: #6b7280; margin-bottom: 24px; }
  .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 20px; margin-bottom: 32px; }
  .card { background: #fff; border: 1px solid #e5e7eb; border-radius: 12px; padding: 20px; cursor: pointer; transition: transform 0.2s, box-shadow 0.2s; }
  .card:hover { transform: translateY(-2px); box-shadow: 0 8px 20px rgba(0,0,0,0.06); }
  .card h3 { font-size: 16px; margin-bottom: 8px; }
  .card p { font-size: 13px; color: #6b7280; margin-bottom: 16px; }
  .card.backup { border-top: 3px solid #0078d4; }
  .card.create { border-top: 3px solid #107c10; }
  .card.remove { border-top: 3px solid #d83b01; }
  .card.restore { border-top: 3px solid #a4262c; }

  .log { background: #fff; border: 1px solid #e5e7eb; border-radius: 12px; padding: 20px; }
  .log-head { display: flex; justify-content: space-between; align-items: center; margin-bottom: 16px; }
  .log-head h3 { font-size: 16px; }
  .log-head select { border: 1px solid #d1d5db; border-radius: 8px; padding: 6px 10px; }
  .event { display: flex; gap: 12px; padding: 12px 0; border-bottom: 1px solid #f3f4f6; }
  .event:last-child { border-bottom: none; }
  .event .action { font-weight: 600; font-size: 14px; }
  .event .meta { font-size: 12px; color: #6b7280; margin: 2px 0; }
  .event .details { font-size: 13px; }
  .badge { display: inline-block; font-size: 11px; padding: 2px 8px; border-radius: 999px; margin-left: 8px; border: 1px solid; }
  .badge.success { color: #107c10; border-color: #9fd89f; background: #f1faf1; }
  .badge.warning { color: #8a6100; border-color: #f7d38a; background: #fff8e6; }
  .badge.error { color: #a4262c; border-color: #f1a7ab; background: #fdf3f4; }
  .badge.info { color: #0078d4; border-color: #9cc8ee; background: #eff6fc; }
  .log-foot { text-align: center; margin-top: 12px; }

  /* dialog */
  .overlay { position: fixed; inset: 0; background: rgba(0,0,0,0.4); display: flex; align-items: center; justify-content: center; padding: 16px; }
  .dialog { background: #fff; border-radius: 12px; width: 100%; max-width: 640px; max-height: 90vh; overflow-y: auto; padding: 24px; }
  .dialog h3 { font-size: 18px; margin-bottom: 16px; }
  .dropzone { border: 2px dashed #d1d5db; border-radius: 8px; padding: 24px; text-align: center; color: #6b7280; font-size: 13px; }
  .dropzone .hint { font-size: 11px; margin-top: 4px; }
  .notice { border-radius: 8px; padding: 12px; font-size: 13px; margin-top: 8px; }
  .notice.backup { background: #eff6fc; color: #0078d4; }
  .notice.create { background: #f1faf1; color: #107c10; }
  .notice.remove { background: #fff8e6; color: #8a6100; }
  .notice.restore { background: #fdf3f4; color: #a4262c; }
  .notice ul { margin: 6px 0 0 16px; font-size: 12px; }
  .dialog-foot { display: flex; justify-content: flex-end; gap: 12px; margin-top: 20px; padding-top: 16px; border-top: 1px solid #e5e7eb; }

  /* toasts */
  .toasts { position: fixed; right: 16px; bottom: 16px; display: flex; flex-direction: column; gap: 8px; z-index: 10; }
  .toast { background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 12px 16px; box-shadow: 0 6px 16px rgba(0,0,0,0.1); min-width: 260px; }
  .toast .t { font-weight: 600; font-size: 14px; }
  .toast .d { font-size: 13px; color: #6b7280; }
  .version { text-align: center; font-size: 11px; color: #9ca3af; padding: 16px; }
</style>
</head>
<body>

<div id="signin" class="signin-wrap hidden">
  <div class="signin-card">
    <h1>{{app.title}}</h1>
    <div class="sub">{{signin.description}}</div>
    <form id="signin-form">
      <div class="field">
        <label for="email">{{signin.email}}</label>
        <input id="email" name="email" type="email" placeholder="user@company.com" autocomplete="username" required autofocus>
      </div>
      <div class="field">
        <label for="password">{{signin.password}}</label>
        <div class="pw">
          <input id="password" name="password" type="password" autocomplete="current-password" required>
          <button type="button" id="pw-toggle" aria-label="toggle password">&#128065;</button>
        </div>
      </div>
      <button class="btn btn-primary signin-btn" id="signin-btn" type="submit" data-pending-label="{{signin.pending}}">{{signin.submit}}</button>
    </form>
    <div class="signin-footer">{{signin.footer}}</div>
  </div>
</div>

<div id="console" class="hidden">
  <header>
    <div class="header-inner">
      <div>
        <h1>{{app.title}}</h1>
        <div class="sub">{{app.subtitle}}</div>
      </div>
      <div class="user">
        <div>
          <div class="name" id="user-name"></div>
          <div class="email" id="user-email"></div>
        </div>
        <button class="btn" id="signout-btn">Sign Out</button>
      </div>
    </div>
  </header>
  <main>
    <h2>{{app.operations_heading}}</h2>
    <p class="lead">{{app.operations_subheading}}</p>
    <div class="cards" id="cards"></div>

    <div class="log">
      <div class="log-head">
        <h3>{{events.title}}</h3>
        <select id="event-filter">
          <option value="all">{{events.filter.all}}</option>
          <option value="success">Success</option>
          <option value="warning">Warning</option>
          <option value="error">Error</option>
          <option value="info">Info</option>
        </select>
      </div>
      <div id="events"></div>
      <div class="log-foot"><button class="btn" type="button">{{events.view_all}}</button></div>
    </div>
  </main>
</div>

<div id="overlay" class="overlay hidden">
  <div class="dialog">
    <h3 id="dialog-title"></h3>
    <div id="dialog-body"></div>
    <div class="dialog-foot">
      <button class="btn" id="dialog-cancel" type="button">{{operation.cancel}}</button>
      <button class="btn btn-primary" id="dialog-submit" type="button"></button>
    </div>
  </div>
</div>

<div class="toasts" id="toasts"></div>
<div class="version">{{APP_VERSION}}</div>

<script>
(function () {
  var snapshot = null;
  var renderedDialog = '';
  var eventsLoaded = false;
  var signinLabel = document.getElementById('signin-btn').textContent;
  var pendingLabel = document.getElementById('signin-btn').dataset.pendingLabel;

  function el(tag, attrs, children) {
    var n = document.createElement(tag);
    Object.keys(attrs || {}).forEach(function (k) {
      if (k === 'text') { n.textContent = attrs[k]; }
      else if (k === 'class') { n.className = attrs[k]; }
      else { n.setAttribute(k, attrs[k]); }
    });
    (children || []).forEach(function (c) { if (c) n.appendChild(c); });
    return n;
  }

  function api(method, path, body) {
    var opts = { method: method, headers: {}, credentials: 'same-origin' };
    if (body !== undefined) {
      opts.headers['Content-Type'] = 'application/json';
      opts.body = JSON.stringify(body);
    }
    return fetch(path, opts).then(function (r) {
      return r.json().catch(function () { return {}; }).then(function (j) {
        if (j && j.success && j.data && j.data.session) apply(j.data);
        return j;
      });
    });
  }

  function apply(snap) {
    snapshot = snap;
    render();
  }

  function render() {
    if (!snapshot) return;
    var authed = snapshot.session && snapshot.session.authenticated;
    document.getElementById('signin').classList.toggle('hidden', authed);
    document.getElementById('console').classList.toggle('hidden', !authed);

    var btn = document.getElementById('signin-btn');
    btn.disabled = !!snapshot.signInPending;
    btn.textContent = '';
    if (snapshot.signInPending) {
      btn.appendChild(el('span', { class: 'spinner' }));
      btn.appendChild(document.createTextNode(pendingLabel));
    } else {
      btn.textContent = signinLabel;
    }

    if (authed) {
      document.getElementById('user-name').textContent = snapshot.session.user.displayName;
      document.getElementById('user-email').textContent = snapshot.session.user.email;
      renderCards(snapshot.operations || []);
      if (!eventsLoaded) { eventsLoaded = true; loadEvents(); }
    } else {
      eventsLoaded = false;
    }
    renderDialog(authed ? snapshot.dialog : null);
    renderToasts();
  }

  function renderCards(ops) {
    var box = document.getElementById('cards');
    if (box.childElementCount === ops.length) return;
    box.textContent = '';
    ops.forEach(function (op) {
      var card = el('div', { class: 'card ' + op.kind }, [
        el('h3', { text: op.title }),
        el('p', { text: op.description }),
        el('button', { class: 'btn', type: 'button', text: op.buttonText })
      ]);
      card.addEventListener('click', function () { api('POST', '/api/operations/' + op.kind + '/open'); });
      box.appendChild(card);
    });
  }

  function renderField(f, values) {
    var id = 'f-' + f.name;
    var input;
    if (f.widget === 'select') {
      input = el('select', { id: id, name: f.name }, [el('option', { value: '', text: f.placeholder || '' })]);
      (f.options || []).forEach(function (o) { input.appendChild(el('option', { value: o.value, text: o.label })); });
      input.value = values[f.name] || '';
    } else if (f.widget === 'textarea') {
      input = el('textarea', { id: id, name: f.name, placeholder: f.placeholder || '' });
      input.value = values[f.name] || '';
    } else if (f.widget === 'dropzone') {
      return el('div', { class: 'field' }, [
        el('label', { text: f.label }),
        el('div', { class: 'dropzone' }, [el('div', { text: f.placeholder || '' }), el('div', { class: 'hint', text: f.hint || '' })])
      ]);
    } else {
      input = el('input', { id: id, name: f.name, type: f.widget === 'password' ? 'password' : 'text', placeholder: f.placeholder || '' });
      input.value = values[f.name] || '';
    }
    input.addEventListener('change', function () {
      api('PUT', '/api/operations/fields', { name: f.name, value: input.value });
    });
    return el('div', { class: 'field' }, [el('label', { for: id, text: f.label }), input]);
  }

  function renderDialog(d) {
    var overlay = document.getElementById('overlay');
    if (!d) {
      overlay.classList.add('hidden');
      renderedDialog = '';
      return;
    }
    var key = d.id + ':' + d.loadingServers;
    overlay.classList.remove('hidden');
    if (key === renderedDialog) return;
    renderedDialog = key;

    document.getElementById('dialog-title').textContent = d.form.title;
    document.getElementById('dialog-submit').textContent = d.form.actionText;
    var body = document.getElementById('dialog-body');
    body.textContent = '';
    d.form.fields.forEach(function (f) { body.appendChild(renderField(f, d.values || {})); });

    var n = d.form.notice || {};
    var notice = el('div', { class: 'notice ' + d.kind });
    if (n.title) notice.appendChild(el('strong', { text: n.title }));
    if (n.text) notice.appendChild(el('div', { text: n.text }));
    if (n.items && n.items.length) {
      var ul = el('ul');
      n.items.forEach(function (i) { ul.appendChild(el('li', { text: i })); });
      notice.appendChild(ul);
    }
    body.appendChild(notice);
  }

  function renderToasts() {
    var box = document.getElementById('toasts');
    box.textContent = '';
    var now = Date.now();
    (snapshot.notifications || []).forEach(function (t) {
      if (Date.parse(t.expiresAt) <= now) return;
      box.appendChild(el('div', { class: 'toast' }, [el('div', { class: 't', text: t.title }), el('div', { class: 'd', text: t.description })]));
    });
  }

  function loadEvents() {
    var status = document.getElementById('event-filter').value;
    fetch('/api/events?status=' + encodeURIComponent(status), { credentials: 'same-origin' })
      .then(function (r) { return r.json(); })
      .then(function (j) {
        var box = document.getElementById('events');
        box.textContent = '';
        if (!j.success) return;
        j.data.events.forEach(function (e) {
          var label = e.status.charAt(0).toUpperCase() + e.status.slice(1);
          box.appendChild(el('div', { class: 'event' }, [
            el('div', {}, [
              el('div', {}, [el('span', { class: 'action', text: e.action }), el('span', { class: 'badge ' + e.status, text: label })]),
              el('div', { class: 'meta', text: e.actor + ' • ' + e.timestamp }),
              el('div', { class: 'details', text: e.details })
            ])
          ]));
        });
      });
  }

  document.getElementById('signin-form').addEventListener('submit', function (ev) {
    ev.preventDefault();
    api('POST', '/api/session/signin', {
      email: document.getElementById('email').value,
      password: document.getElementById('password').value
    });
  });
  document.getElementById('pw-toggle').addEventListener('click', function () {
    var p = document.getElementById('password');
    p.type = p.type === 'password' ? 'text' : 'password';
  });
  document.getElementById('signout-btn').addEventListener('click', function () { api('POST', '/api/session/signout'); });
  document.getElementById('dialog-cancel').addEventListener('click', function () { api('POST', '/api/operations/close'); });
  // Submit has no backend contract yet; the response is deliberately ignored.
  document.getElementById('dialog-submit').addEventListener('click', function () { api('POST', '/api/operations/submit'); });
  document.getElementById('event-filter').addEventListener('change', loadEvents);
  setInterval(function () { if (snapshot) renderToasts(); }, 1000);

  function connect() {
    var proto = location.protocol === 'https:' ? 'wss://' : 'ws://';
    var ws = new WebSocket(proto + location.host + '/ws');
    ws.onmessage = function (m) { apply(JSON.parse(m.data)); };
    ws.onclose = function () { setTimeout(connect, 2000); };
  }

  api('GET', '/api/state');
  connect();
})();
</script>
</body>
</html>`
