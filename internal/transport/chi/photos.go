package chi

import "net/http"

// ServePhoto handles GET /uploads/{name}. Range and conditional requests
// are answered by http.ServeContent.
func (s *Server) ServePhoto(w http.ResponseWriter, r *http.Request) {
	p, err := s.cfg.Photos.Open(r.Context(), pathParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	defer func() { _ = p.Body.Close() }()

	if p.ContentType != "" {
		w.Header().Set("Content-Type", p.ContentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeContent(w, r, p.Name, p.ModTime, p.Body)
}
