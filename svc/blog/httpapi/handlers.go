package httpapi

import (
	"net/http"

	"github.com/dmitrymomot/blogkit/svc/blog"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID string     `json:"session_id"`
	CSRFToken string     `json:"csrf_token"`
	User      *blog.User `json:"user"`
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var in blog.RegisterInput
	if err := a.decode(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	u, err := a.auth.Register(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := a.decode(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	u, err := a.auth.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	id, token, err := a.sessions.Create(u.ID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, CSRFToken: token, User: u})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Delete(r.Header.Get(SessionHeader))
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listPosts(w http.ResponseWriter, r *http.Request) {
	page, err := a.search.Recent(r.Context(), actor(r), queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) searchPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := blog.PostFilters{
		Category: q.Get("category"),
		UserID:   q.Get("user_id"),
		Status:   q.Get("status"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}

	page, err := a.search.Posts(r.Context(), actor(r), q.Get("q"), filters, queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if page.Pagination != nil {
		a.search.Log(r.Context(), page.Query, actor(r), page.Total)
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.search.Suggestions(r.Context(), r.URL.Query().Get("q"), queryInt(r, "limit")))
}

func (a *API) categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.search.Categories(r.Context()))
}

func (a *API) popular(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.search.Popular(r.Context(), queryInt(r, "limit")))
}

func (a *API) getPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.posts.Get(r.Context(), actor(r), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) createPost(w http.ResponseWriter, r *http.Request) {
	var in blog.PostInput
	if err := a.decode(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.posts.Create(r.Context(), actor(r), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) updatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var in blog.PostInput
	if err := a.decode(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	p, err := a.posts.Update(r.Context(), actor(r), id, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.posts.Delete(r.Context(), actor(r), id); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) searchUsers(w http.ResponseWriter, r *http.Request) {
	page, err := a.search.Users(r.Context(), actor(r), r.URL.Query().Get("q"), queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (a *API) changeRole(w http.ResponseWriter, r *http.Request) {
	target, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var in roleRequest
	if err := a.decode(w, r, &in); err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.auth.ChangeRole(r.Context(), actor(r), target, in.Role); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
