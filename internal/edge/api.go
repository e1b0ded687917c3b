package edge

import (
	"net/http"
	"net/url"
)

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		s.respondError(w, r, &Error{StatusCode: http.StatusBadRequest, Message: MsgIDRequired})
		return
	}
	s.forward(w, r, GatewayMovie+url.PathEscape(id), "")
}

func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	s.forward(w, r, GatewayPopular, r.URL.RawQuery)
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	s.forward(w, r, GatewaySearch, r.URL.RawQuery)
}

// forward relays a gateway response body unchanged.
func (s *Server) forward(w http.ResponseWriter, r *http.Request, path, rawQuery string) {
	var body []byte
	if err := s.gateway.GetRaw(r.Context(), path, rawQuery, &body); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
