package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abatilo/lanes/internal/board"
	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/task"
)

const maxTextSize = 10 << 10 // 10KB

// taskRequest is the body of add and edit calls. Dates may be given either as
// millisecond timestamps or as YYYY-MM-DD strings; absent fields are left alone.
type taskRequest struct {
	Text     *string `json:"text"`
	StartDay *int64  `json:"startDay"`
	EndDay   *int64  `json:"endDay"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
}

func (r taskRequest) applyTo(f *board.Form) error {
	f.Apply(board.Patch{Text: r.Text, StartDay: r.StartDay, EndDay: r.EndDay})
	if r.Start != nil {
		if err := f.SetStartDate(*r.Start); err != nil {
			return err
		}
	}
	if r.End != nil {
		if err := f.SetEndDate(*r.End); err != nil {
			return err
		}
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.As(err, new(laneserrors.TaskNotFoundError)):
		return http.StatusNotFound
	case errors.As(err, new(laneserrors.NotEditableError)),
		errors.As(err, new(laneserrors.ClearNotAllowedError)),
		errors.As(err, new(laneserrors.AlreadyExistsError)):
		return http.StatusConflict
	case errors.As(err, new(laneserrors.InvalidStageError)),
		errors.As(err, new(laneserrors.MissingFieldError)),
		errors.As(err, new(laneserrors.InvalidDateError)):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid task id",
		})
		return 0, false
	}
	return id, true
}

func (s *Server) store() *board.Store {
	return s.handlers.Store()
}

func (s *Server) view(term string) board.View {
	return board.Derive(s.store().List(), term, s.handlers.Location())
}

// Web handlers

func (s *Server) handleIndex(c *gin.Context) {
	term := c.Query("q")
	c.HTML(http.StatusOK, "board.html", gin.H{
		"title": "Lanes",
		"view":  s.view(term),
		"term":  term,
	})
}

// API handlers

func (s *Server) handleAPIBoard(c *gin.Context) {
	term := c.Query("q")
	if len(term) > maxTextSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "query exceeds maximum size of 10KB",
		})
		return
	}

	v := s.view(term)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"search":  v.Term,
		"columns": v.Columns,
		"count":   v.Total(),
	})
}

func (s *Server) handleAPIStages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stages":  board.Columns(),
	})
}

func (s *Server) handleAPITask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	t, found := s.store().Get(id)
	if !found {
		fail(c, http.StatusNotFound, laneserrors.TaskNotFoundError{ID: id})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    t,
		"overdue": t.Overdue(s.now()),
	})
}

func (s *Server) handleAPICreate(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if req.Text != nil && len(*req.Text) > maxTextSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "text exceeds maximum size of 10KB",
		})
		return
	}

	f := s.handlers.NewTaskForm(s.now())
	if err := req.applyTo(f); err != nil {
		fail(c, statusFor(err), err)
		return
	}

	tasks, err := s.handlers.Submit(c.Request.Context(), f)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"id":      f.Draft().ID,
		"message": "Task created",
		"tasks":   tasks,
	})
}

func (s *Server) handleAPIUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if req.Text != nil && len(*req.Text) > maxTextSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "text exceeds maximum size of 10KB",
		})
		return
	}

	f, err := s.handlers.EditInColumn(id)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}
	if err = req.applyTo(f); err != nil {
		fail(c, statusFor(err), err)
		return
	}

	tasks, err := s.handlers.Submit(c.Request.Context(), f)
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
		"message": "Task updated",
		"tasks":   tasks,
	})
}

func (s *Server) handleAPIDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if !s.store().Exists(id) {
		fail(c, http.StatusNotFound, laneserrors.TaskNotFoundError{ID: id})
		return
	}

	tasks := s.store().Remove(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
		"tasks":   tasks,
	})
}

func (s *Server) handleAPIDropOnColumn(c *gin.Context) {
	var p board.DragPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if !s.store().Exists(p.TaskID) {
		fail(c, http.StatusNotFound, laneserrors.TaskNotFoundError{ID: p.TaskID})
		return
	}

	tasks, err := s.handlers.DropOnColumn(c.Request.Context(), p, task.Stage(c.Param("stage")))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task moved",
		"tasks":   tasks,
	})
}

func (s *Server) handleAPIDropOnTrash(c *gin.Context) {
	var p board.DragPayload
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if !s.store().Exists(p.TaskID) {
		fail(c, http.StatusNotFound, laneserrors.TaskNotFoundError{ID: p.TaskID})
		return
	}

	tasks := s.handlers.DropOnTrash(c.Request.Context(), p)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted",
		"tasks":   tasks,
	})
}

func (s *Server) handleAPIClearColumn(c *gin.Context) {
	tasks, err := s.handlers.ClearColumn(c.Request.Context(), task.Stage(c.Param("stage")))
	if err != nil {
		fail(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Column cleared",
		"tasks":   tasks,
	})
}
