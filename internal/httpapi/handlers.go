package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"myfilms/internal/catalog"
	"myfilms/internal/detail"
	"myfilms/internal/lists"
	"myfilms/internal/logging"
	"myfilms/internal/services"
)

type listView struct {
	lists.List
	Cover string `json:"cover,omitempty"`
}

func viewOf(list lists.List) listView {
	return listView{List: list, Cover: list.Cover()}
}

type createListRequest struct {
	Name string `json:"name"`
}

// fail maps an error onto a status using the service markers.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrAuth):
		status = http.StatusUnauthorized
	}
	if status == http.StatusInternalServerError {
		logging.ErrorWithContext(logging.WithContext(c.Request.Context(), s.logger), "request failed", "api_request_failed",
			logging.Error(err),
			logging.String("path", c.FullPath()),
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func orEmpty(items []catalog.Item) []catalog.Item {
	if items == nil {
		return []catalog.Item{}
	}
	return items
}

// Catalog routes degrade to an empty result when the remote catalog fails;
// the orchestrators already log the failure.

func (s *Server) handlePopular(c *gin.Context) {
	items, _ := s.app.Browse.Search(c.Request.Context(), "")
	c.JSON(http.StatusOK, gin.H{"results": orEmpty(items)})
}

func (s *Server) handleSearch(c *gin.Context) {
	items, _ := s.app.Browse.Search(c.Request.Context(), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"results": orEmpty(items)})
}

func (s *Server) handleItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	kind := catalog.ParseKind(c.Param("kind"))
	item := catalog.Item{ID: id, MediaType: kind}
	d, err := s.app.Detail.FetchDetail(c.Request.Context(), item)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"detail": nil})
		return
	}
	body := gin.H{
		"detail":  d,
		"runtime": d.RuntimeLabel(),
		"genres":  d.GenreNames(),
		"cast":    d.TopCast(detail.CastShown),
	}
	if trailer, ok := d.Trailer(); ok {
		body["trailer"] = trailer
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleCredits(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	items, _ := s.app.Detail.Filmography(c.Request.Context(), id)
	items = detail.FilterByTitle(items, c.Query("filter"))
	c.JSON(http.StatusOK, gin.H{"results": orEmpty(items)})
}

func (s *Server) handleLists(c *gin.Context) {
	all := managerFrom(c).Lists()
	out := make([]listView, 0, len(all))
	for _, list := range all {
		out = append(out, viewOf(list))
	}
	c.JSON(http.StatusOK, gin.H{"lists": out})
}

func (s *Server) handleCreateList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	list, err := managerFrom(c).CreateList(c.Request.Context(), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(list))
}

func (s *Server) handleList(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	order, err := lists.ParseSortOrder(c.Query("sort"))
	if err != nil {
		s.fail(c, err)
		return
	}
	list, err := managerFrom(c).Get(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	view := viewOf(list)
	view.Items = lists.SortedView(list.Items, order)
	c.JSON(http.StatusOK, gin.H{"list": view, "sort": order})
}

func (s *Server) handleDeleteList(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := managerFrom(c).DeleteList(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var item catalog.Item
	if err := c.ShouldBindJSON(&item); err != nil || item.ID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item"})
		return
	}
	added, err := managerFrom(c).AddToList(services.WithListID(c.Request.Context(), id), id, item)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (s *Server) handleRemoveItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemID")
	if !ok {
		return
	}
	removed, err := managerFrom(c).RemoveFromList(services.WithListID(c.Request.Context(), id), id, itemID)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
