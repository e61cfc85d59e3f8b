// Package handler binds the REST surface to the registry and attendance
// services.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classtrack/internal/attendance"
	"classtrack/internal/model"
	"classtrack/internal/roster"
	"classtrack/internal/store"
	"classtrack/internal/view"
)

type Handler struct {
	roster     *roster.Service
	attendance *attendance.Service
}

func New(rs *roster.Service, as *attendance.Service) *Handler {
	return &Handler{roster: rs, attendance: as}
}

// Register mounts all /api routes.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	{
		api.GET("/classes", h.ListClasses)
		api.POST("/classes", h.CreateClass)
		api.GET("/classes/:id", h.GetClass)
		api.DELETE("/classes/:id", h.DeleteClass)
		api.GET("/classes/:id/students", h.ListStudents)
		api.POST("/classes/:id/students", h.CreateStudent)
		api.GET("/classes/:id/sheet", h.DailySheet)
		api.GET("/classes/:id/calendar", h.Calendar)

		api.DELETE("/students/:id", h.DeleteStudent)

		api.GET("/attendance/:classId", h.History)
		api.GET("/attendance/:classId/:date", h.GetAttendance)
		api.POST("/attendance/:classId/:date", h.SaveAttendance)
		api.DELETE("/attendance/:classId/:date", h.ClearAttendance)
	}
}

// ---------- Classes ----------

func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.roster.ListClasses(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if classes == nil {
		classes = []model.Class{}
	}
	c.JSON(http.StatusOK, classes)
}

type createClassRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateClass(c *gin.Context) {
	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.roster.AddClass(c.Request.Context(), req.ID, req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetClass(c *gin.Context) {
	cls, err := h.roster.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cls)
}

func (h *Handler) DeleteClass(c *gin.Context) {
	if err := h.roster.RemoveClass(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "class deleted"})
}

// ---------- Students ----------

func (h *Handler) ListStudents(c *gin.Context) {
	students, err := h.roster.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	c.JSON(http.StatusOK, students)
}

type createStudentRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) CreateStudent(c *gin.Context) {
	var req createStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.roster.AddStudent(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) DeleteStudent(c *gin.Context) {
	if err := h.roster.RemoveStudent(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}

// ---------- Attendance ----------

type saveAttendanceRequest struct {
	Attendance map[string]model.Status `json:"attendance"`
	Notes      string                  `json:"notes"`
}

func (h *Handler) SaveAttendance(c *gin.Context) {
	var req saveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec := model.DailyRecord{Attendance: req.Attendance, Notes: req.Notes}
	if rec.Attendance == nil {
		rec.Attendance = map[string]model.Status{}
	}
	if err := h.attendance.Save(c.Request.Context(), c.Param("classId"), c.Param("date"), rec); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance saved"})
}

func (h *Handler) GetAttendance(c *gin.Context) {
	rec, err := h.attendance.Get(c.Request.Context(), c.Param("classId"), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) ClearAttendance(c *gin.Context) {
	if err := h.attendance.Clear(c.Request.Context(), c.Param("classId"), c.Param("date")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance cleared"})
}

func (h *Handler) History(c *gin.Context) {
	rows, notes, err := h.attendance.History(c.Request.Context(), c.Param("classId"))
	if err != nil {
		fail(c, err)
		return
	}
	if rows == nil {
		rows = []model.AttendanceRow{}
	}
	if notes == nil {
		notes = []model.NoteRow{}
	}
	c.JSON(http.StatusOK, gin.H{"attendance": rows, "notes": notes})
}

// ---------- Derived views ----------

// DailySheet returns the editable sheet for a class, defaulting to today
// (UTC). Statuses come from the current roster merged with the persisted
// record; recordExists gates the destructive clear action client-side.
func (h *Handler) DailySheet(c *gin.Context) {
	date := c.DefaultQuery("date", model.Today())
	if !model.ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	students, err := h.roster.ListStudents(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	rec, err := h.attendance.Get(c.Request.Context(), c.Param("id"), date)
	exists := err == nil
	if err != nil && !errors.Is(err, store.ErrNoRecord) {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view.DailySheet(date, students, rec, exists))
}

// Calendar returns the month grid with per-day summaries for a class.
func (h *Handler) Calendar(c *gin.Context) {
	now := time.Now().UTC()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be 1-12"})
		return
	}

	rows, notes, err := h.attendance.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	history := view.GroupHistory(rows, notes)
	c.JSON(http.StatusOK, gin.H{
		"year":  year,
		"month": month,
		"cells": view.Calendar(year, time.Month(month), history),
	})
}

// fail maps domain errors onto HTTP statuses.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateClass):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNoRecord):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
