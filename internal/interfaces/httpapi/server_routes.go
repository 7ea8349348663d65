package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, writeToken string) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.Handle("GET /v1/system/content/test", RequireBearerToken(writeToken, http.HandlerFunc(handler.TestContentConnection)))
}

func registerReadRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/settings", handler.Serve)
	mux.HandleFunc("GET /v1/players", handler.Serve)
	mux.HandleFunc("GET /v1/players/{id}", handler.Serve)
	mux.HandleFunc("GET /v1/players/{id}/stats", handler.Serve)
	mux.HandleFunc("GET /v1/teams", handler.Serve)
	mux.HandleFunc("GET /v1/teams/{id}", handler.Serve)
	mux.HandleFunc("GET /v1/matches", handler.Serve)
	mux.HandleFunc("GET /v1/matches/bracket", handler.Serve)
	mux.HandleFunc("GET /v1/rules", handler.Serve)
	mux.HandleFunc("GET /v1/rules/cards", handler.Serve)
	mux.HandleFunc("POST /v1/auth/login", handler.Serve)
	mux.HandleFunc("POST /v1/wotstat/team-points", handler.Serve)
}

func registerWriteRoutes(mux *http.ServeMux, handler *Handler, writeToken string) {
	write := RequireBearerToken(writeToken, http.HandlerFunc(handler.Serve))

	mux.Handle("PUT /v1/settings", write)
	for _, collection := range []string{"players", "teams", "matches", "rules", "rules/cards"} {
		mux.Handle("PUT /v1/"+collection+"/{id}", write)
		mux.Handle("DELETE /v1/"+collection+"/{id}", write)
	}
	// Anything else under /v1 still reaches the data API, which answers
	// with an unsupported operation. Only mutating verbs need the token.
	mux.Handle("/v1/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isMutating(r.Method) {
			write.ServeHTTP(w, r)
			return
		}
		handler.Serve(w, r)
	}))
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

func registerPointsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/points", handler.ListTeamPoints)
	mux.HandleFunc("GET /v1/teams/{teamID}/points", handler.GetTeamPoints)
}
