package render

import (
	"bytes"
	"strings"
)

// LiveReloadPath is the SSE endpoint the injected client subscribes to.
const LiveReloadPath = "/_pagesmith/livereload"

// liveReloadScript reloads the page when the server reports a generation
// other than the first one it saw.
const liveReloadScript = `<script>(() => {
  if (window.__PAGESMITH_LR__) return;
  window.__PAGESMITH_LR__ = true;
  let current = null;
  function connect() {
    const es = new EventSource('` + LiveReloadPath + `');
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();</script>`

// injectLiveReload inserts the client before the last </body>. Documents
// without a body close tag are returned unchanged.
func injectLiveReload(doc []byte) []byte {
	idx := strings.LastIndex(strings.ToLower(string(doc)), "</body>")
	if idx == -1 {
		return doc
	}
	var out bytes.Buffer
	out.Grow(len(doc) + len(liveReloadScript) + 2)
	out.Write(doc[:idx])
	out.WriteString(liveReloadScript)
	out.WriteByte('\n')
	out.Write(doc[idx:])
	return out.Bytes()
}
