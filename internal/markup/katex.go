package markup

import (
	"fmt"
)

// initScript returns the typesetting bootstrap: once the document loads it
// scans for delimiter pairs and renders each match in place. Render errors
// leave the source text visible instead of throwing.
func initScript() string {
	return `document.addEventListener('DOMContentLoaded', function () {
  if (typeof renderMathInElement !== 'function') {
    return;
  }
  renderMathInElement(document.body, {
    delimiters: [
      { left: '$$', right: '$$', display: true },
      { left: '\\[', right: '\\]', display: true },
      { left: '$', right: '$', display: false },
      { left: '\\(', right: '\\)', display: false }
    ],
    throwOnError: false
  });
});`
}

// bridgeAdapter returns the script installing window.MathViewBridge over a
// WebSocket to the host's ingest endpoint. Used when the document is
// rendered by a browser-hosted sandbox rather than the embedded runtime.
func bridgeAdapter(endpoint string) string {
	return fmt.Sprintf(`(function () {
  try {
    var socket = new WebSocket(%q);
    window.MathViewBridge = {
      postMessage: function (payload) {
        if (socket.readyState === 1) {
          socket.send(payload);
        }
      }
    };
  } catch (e) {
    if (typeof console !== 'undefined' && console.warn) {
      console.warn('height bridge unavailable: ' + e);
    }
  }
})();`, endpoint)
}
