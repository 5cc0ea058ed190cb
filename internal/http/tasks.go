package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tasktracker/internal/domain"
)

type createTaskForm struct {
	Title  string `form:"title" json:"title"`
	Filter string `form:"filter" json:"filter"`
}

type filterTab struct {
	Filter domain.TaskFilter
	Label  string
	Count  int
}

func (h *Handler) listTasks(c *gin.Context) {
	identity, _ := identityFrom(c)
	filter := domain.ParseTaskFilter(c.Query("filter"))

	tasks, err := h.tasks.List(c.Request.Context(), identity, filter)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	counts, err := h.tasks.Counts(c.Request.Context(), identity)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	h.render(c, http.StatusOK, "tasks.tmpl", gin.H{
		"Tasks":  tasks,
		"Filter": filter,
		"Tabs": []filterTab{
			{Filter: domain.TaskFilterAll, Label: "All", Count: counts.All()},
			{Filter: domain.TaskFilterPending, Label: "Pending", Count: counts.Pending},
			{Filter: domain.TaskFilterCompleted, Label: "Completed", Count: counts.Completed},
		},
	})
}

func (h *Handler) createTask(c *gin.Context) {
	identity, _ := identityFrom(c)
	var form createTaskForm
	_ = c.ShouldBind(&form)

	task, err := h.tasks.Create(c.Request.Context(), identity, form.Title)
	switch {
	case errors.Is(err, domain.ErrInvalidTitle):
		h.logger.WithField("user", identity.Username).Warn("rejected task title")
	case err != nil:
		_ = c.Error(err)
		c.Abort()
		return
	case task != nil:
		h.logger.WithFields(logrus.Fields{"user": identity.Username, "task": task.ID}).Info("task created")
	}
	c.Redirect(http.StatusFound, tasksURL(form.Filter))
}

func (h *Handler) completeTask(c *gin.Context) {
	identity, _ := identityFrom(c)
	task, err := h.tasks.Complete(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	if task != nil {
		h.logger.WithFields(logrus.Fields{"user": identity.Username, "task": task.ID}).Info("task completed")
	}
	c.Redirect(http.StatusFound, tasksURL(c.PostForm("filter")))
}

func (h *Handler) deleteTask(c *gin.Context) {
	identity, _ := identityFrom(c)
	task, err := h.tasks.Delete(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}
	if task != nil {
		h.logger.WithFields(logrus.Fields{"user": identity.Username, "task": task.ID}).Info("task deleted")
	}
	c.Redirect(http.StatusFound, tasksURL(c.PostForm("filter")))
}

// tasksURL returns the listing URL, keeping a recognised non-default filter.
func tasksURL(rawFilter string) string {
	if rawFilter == "" {
		return tasksPath
	}
	filter := domain.ParseTaskFilter(rawFilter)
	if filter == domain.TaskFilterAll {
		return tasksPath
	}
	return tasksPath + "?filter=" + url.QueryEscape(string(filter))
}
