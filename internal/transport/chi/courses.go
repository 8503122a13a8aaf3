package chi

import (
	"net/http"
)

// ListCourses handles GET /api/v1/courses.
func (s *Server) ListCourses(w http.ResponseWriter, r *http.Request) {
	s.list(w, r, s.cfg.CourseList)
}

// ListBootcampCourses handles GET /api/v1/bootcamps/{id}/courses.
func (s *Server) ListBootcampCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.cfg.Courses.ListByBootcamp(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Success: true, Count: len(courses), Data: courses})
}

// GetCourse handles GET /api/v1/courses/{id}.
func (s *Server) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := s.cfg.Courses.Get(r.Context(), pathParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: c})
}

// AddCourse handles POST /api/v1/bootcamps/{id}/courses.
func (s *Server) AddCourse(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	c, err := s.cfg.Courses.Add(r.Context(), p, pathParam(r, "id"), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dataResponse{Success: true, Data: c})
}

// UpdateCourse handles PUT /api/v1/courses/{id}.
func (s *Server) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	body, err := decodeBody(w, r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	c, err := s.cfg.Courses.Update(r.Context(), p, pathParam(r, "id"), body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: c})
}

// DeleteCourse handles DELETE /api/v1/courses/{id}.
func (s *Server) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	p, err := mustPrincipal(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if err := s.cfg.Courses.Delete(r.Context(), p, pathParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: struct{}{}})
}
