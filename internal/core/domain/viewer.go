package domain

// Viewer is the authenticated principal a request acts on behalf of. It is
// passed explicitly to every operation that depends on identity.
type Viewer struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

func (v Viewer) CanModify(w *Wish) bool {
	if w == nil {
		return false
	}
	return v.IsAdmin || (v.ID != "" && w.Creator == v.ID)
}
