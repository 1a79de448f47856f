package api

import (
	"net/http"
	"strings"

	"global-atlas/internal/locate"
	"global-atlas/internal/version"
)

func (s *server) handleLocate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.locator.Suggest(locate.ClientIP(r)))
}

// ConfigScript：向前端暴露 API 基础路径等运行时配置，避免硬编码
func ConfigScript(apiBase, feedbackURL string) http.HandlerFunc {
	body := "window.__API_BASE__='" + jsEscape(apiBase) + "'\n" +
		"window.__FEEDBACK_URL__='" + jsEscape(feedbackURL) + "'\n" +
		"window.__COMMIT_SHA__='" + jsEscape(version.Commit) + "'"
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/javascript; charset=utf-8")
		w.Header().Set("cache-control", "no-store")
		_, _ = w.Write([]byte(body))
	}
}

var jsReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "<", `\x3c`)

func jsEscape(s string) string { return jsReplacer.Replace(s) }
