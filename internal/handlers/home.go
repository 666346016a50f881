package handlers

import (
	"net/http"
)

// Home renders the page: navbar, ongoing tasks, add form and deleted panel.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	m, err := h.openManager(w, r)
	if err != nil {
		respondServerError(w, err)
		return
	}

	h.render(w, "index.html", pageData(m))
}
