package router

import (
	"net/http"

	"quicksort/backend/app/controllers"
	"quicksort/backend/app/middleware"
)

type Controllers struct {
	Tree     *controllers.TreeController
	Rules    *controllers.RuleController
	Monitor  *controllers.MonitorController
	Organize *controllers.OrganizeController
	Logs     *controllers.LogController
	Health   *controllers.HealthController
}

func NewRouter(c Controllers, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	guard := func(h http.HandlerFunc) http.Handler { return mw.RequireAuth(h) }

	// public
	mux.HandleFunc("GET /api/health", c.Health.Health)

	// tree
	mux.HandleFunc("GET /api/tree", c.Tree.GetTree)
	mux.HandleFunc("GET /api/tree/nodes", c.Tree.ListNodes)
	mux.Handle("POST /api/tree/nodes", guard(c.Tree.CreateNode))
	mux.Handle("PUT /api/tree/nodes/{id}", guard(c.Tree.UpdateNode))
	mux.Handle("DELETE /api/tree/nodes/{id}", guard(c.Tree.DeleteNode))

	// rules
	mux.HandleFunc("GET /api/rules", c.Rules.ListRules)
	mux.Handle("POST /api/rules", guard(c.Rules.CreateRule))
	mux.Handle("PUT /api/rules/{id}", guard(c.Rules.UpdateRule))
	mux.Handle("DELETE /api/rules/{id}", guard(c.Rules.DeleteRule))

	// monitor
	mux.HandleFunc("GET /api/monitor/status", c.Monitor.Status)
	mux.Handle("POST /api/monitor/start", guard(c.Monitor.Start))
	mux.Handle("POST /api/monitor/stop", guard(c.Monitor.Stop))
	mux.HandleFunc("GET /api/monitor/config", c.Monitor.GetConfig)
	mux.Handle("PUT /api/monitor/config", guard(c.Monitor.UpdateConfig))
	mux.HandleFunc("GET /api/monitor/files", c.Monitor.Files)
	mux.Handle("POST /api/monitor/organize-all", guard(c.Monitor.OrganizeAll))

	// organize
	mux.Handle("POST /api/organize/file", guard(c.Organize.File))
	mux.Handle("POST /api/organize/folder", guard(c.Organize.Folder))
	mux.HandleFunc("POST /api/organize/preview", c.Organize.Preview)

	// logs
	mux.HandleFunc("GET /api/logs", c.Logs.List)
	mux.HandleFunc("GET /api/logs/stats", c.Logs.Stats)

	return mux
}
