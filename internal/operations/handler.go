package operations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dashpos/internal/auth"
	"dashpos/internal/domain"
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/locations", h.createLocation)
	rg.GET("/locations", h.listLocations)
	rg.GET("/locations/:location_id", h.getLocation)
	rg.PUT("/locations/:location_id", h.updateLocation)
	rg.DELETE("/locations/:location_id", h.deleteLocation)

	rg.POST("/tables", h.createTable)
	rg.GET("/tables", h.listTables)
	rg.GET("/tables/availability", h.availability)
	rg.GET("/tables/:table_id", h.getTable)
	rg.PUT("/tables/:table_id", h.updateTable)
	rg.DELETE("/tables/:table_id", h.deleteTable)
	rg.POST("/tables/:table_id/assign", h.assignTable)
	rg.POST("/tables/:table_id/release", h.releaseTable)

	rg.POST("/kds/orders", h.createKDSOrder)
	rg.GET("/kds/orders", h.listKDSOrders)
	rg.GET("/kds/orders/:kds_id", h.getKDSOrder)
	rg.PUT("/kds/orders/:kds_id", h.updateKDSOrder)
	rg.GET("/kds/performance", h.kitchenPerformance)

	rg.POST("/staff", h.createStaffMember)
	rg.GET("/staff", h.listStaffMembers)
	rg.GET("/staff/:staff_id", h.getStaffMember)
	rg.PUT("/staff/:staff_id", h.updateStaffMember)

	rg.POST("/schedules", h.createSchedule)
	rg.GET("/schedules", h.listSchedules)
	rg.PUT("/schedules/:schedule_id", h.updateSchedule)
	rg.DELETE("/schedules/:schedule_id", h.deleteSchedule)

	rg.POST("/timeclock/clock-in", h.clockIn)
	rg.POST("/timeclock/clock-out/:staff_id", h.clockOut)
	rg.POST("/timeclock/break-start/:staff_id", h.breakStart)
	rg.POST("/timeclock/break-end/:staff_id", h.breakEnd)
	rg.GET("/timeclock/entries", h.listClockEntries)

	rg.GET("/dashboard", h.dashboard)
}

func (h *Handler) fail(c *gin.Context, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error(action, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func dateRange(c *gin.Context) (from, to *time.Time, ok bool) {
	ok = true
	if v := c.Query("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return nil, nil, false
		}
		from = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return nil, nil, false
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, ok
}

func (h *Handler) createLocation(c *gin.Context) {
	var req domain.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	l, err := h.svc.CreateLocation(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_location_failed", err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *Handler) listLocations(c *gin.Context) {
	ls, err := h.svc.ListLocations(c.Request.Context(), c.Query("business_id"))
	if err != nil {
		h.fail(c, "list_locations_failed", err)
		return
	}
	c.JSON(http.StatusOK, ls)
}

func (h *Handler) getLocation(c *gin.Context) {
	l, err := h.svc.GetLocation(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("location_id"))
	if err != nil {
		h.fail(c, "get_location_failed", err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) updateLocation(c *gin.Context) {
	var req domain.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l, err := h.svc.UpdateLocation(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("location_id"), req)
	if err != nil {
		h.fail(c, "update_location_failed", err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) deleteLocation(c *gin.Context) {
	if err := h.svc.DeleteLocation(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("location_id")); err != nil {
		h.fail(c, "delete_location_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createTable(c *gin.Context) {
	var req domain.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	t, err := h.svc.CreateTable(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_table_failed", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) listTables(c *gin.Context) {
	ts, err := h.svc.ListTables(c.Request.Context(),
		c.Query("business_id"), c.Query("location_id"), c.Query("status"))
	if err != nil {
		h.fail(c, "list_tables_failed", err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *Handler) availability(c *gin.Context) {
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid party_size"})
		return
	}
	ts, err := h.svc.AvailableTables(c.Request.Context(), c.Query("business_id"), partySize)
	if err != nil {
		h.fail(c, "table_availability_failed", err)
		return
	}
	c.JSON(http.StatusOK, ts)
}

func (h *Handler) getTable(c *gin.Context) {
	t, err := h.svc.GetTable(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("table_id"))
	if err != nil {
		h.fail(c, "get_table_failed", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) updateTable(c *gin.Context) {
	var req domain.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.UpdateTable(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("table_id"), req)
	if err != nil {
		h.fail(c, "update_table_failed", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) deleteTable(c *gin.Context) {
	if err := h.svc.DeleteTable(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("table_id")); err != nil {
		h.fail(c, "delete_table_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) assignTable(c *gin.Context) {
	var req domain.AssignTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.AssignTable(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("table_id"), req)
	if err != nil {
		h.fail(c, "assign_table_failed", err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) releaseTable(c *gin.Context) {
	t, occupiedMinutes, err := h.svc.ReleaseTable(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("table_id"))
	if err != nil {
		h.fail(c, "release_table_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": t, "occupied_minutes": occupiedMinutes})
}

func (h *Handler) createKDSOrder(c *gin.Context) {
	var req domain.CreateKDSOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	o, err := h.svc.CreateKDSOrder(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_kds_order_failed", err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *Handler) listKDSOrders(c *gin.Context) {
	os, err := h.svc.ListKDSOrders(c.Request.Context(),
		c.Query("business_id"), c.Query("station"), c.QueryArray("status"))
	if err != nil {
		h.fail(c, "list_kds_orders_failed", err)
		return
	}
	c.JSON(http.StatusOK, os)
}

func (h *Handler) getKDSOrder(c *gin.Context) {
	o, err := h.svc.GetKDSOrder(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("kds_id"))
	if err != nil {
		h.fail(c, "get_kds_order_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) updateKDSOrder(c *gin.Context) {
	var req domain.UpdateKDSOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, err := h.svc.UpdateKDSOrder(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("kds_id"), req)
	if err != nil {
		h.fail(c, "update_kds_order_failed", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *Handler) kitchenPerformance(c *gin.Context) {
	p, err := h.svc.KitchenPerformance(c.Request.Context(), c.Query("business_id"))
	if err != nil {
		h.fail(c, "kitchen_performance_failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) createStaffMember(c *gin.Context) {
	var req domain.CreateStaffMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	m, err := h.svc.CreateStaffMember(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_staff_failed", err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) listStaffMembers(c *gin.Context) {
	ms, err := h.svc.ListStaffMembers(c.Request.Context(),
		c.Query("business_id"), c.Query("status"))
	if err != nil {
		h.fail(c, "list_staff_failed", err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

func (h *Handler) getStaffMember(c *gin.Context) {
	m, err := h.svc.GetStaffMember(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("staff_id"))
	if err != nil {
		h.fail(c, "get_staff_failed", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) updateStaffMember(c *gin.Context) {
	var req domain.UpdateStaffMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	m, err := h.svc.UpdateStaffMember(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("staff_id"), req)
	if err != nil {
		h.fail(c, "update_staff_failed", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) createSchedule(c *gin.Context) {
	var req domain.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	sch, err := h.svc.CreateSchedule(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "create_schedule_failed", err)
		return
	}
	c.JSON(http.StatusCreated, sch)
}

func (h *Handler) listSchedules(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	schs, err := h.svc.ListSchedules(c.Request.Context(),
		c.Query("business_id"), c.Query("staff_id"), from, to)
	if err != nil {
		h.fail(c, "list_schedules_failed", err)
		return
	}
	c.JSON(http.StatusOK, schs)
}

func (h *Handler) updateSchedule(c *gin.Context) {
	var req domain.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sch, err := h.svc.UpdateSchedule(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("schedule_id"), req)
	if err != nil {
		h.fail(c, "update_schedule_failed", err)
		return
	}
	c.JSON(http.StatusOK, sch)
}

func (h *Handler) deleteSchedule(c *gin.Context) {
	if err := h.svc.DeleteSchedule(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("schedule_id")); err != nil {
		h.fail(c, "delete_schedule_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) clockIn(c *gin.Context) {
	var req domain.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !auth.SameBusiness(c, req.BusinessID) {
		return
	}
	e, err := h.svc.ClockIn(c.Request.Context(), req)
	if err != nil {
		h.fail(c, "clock_in_failed", err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *Handler) clockOut(c *gin.Context) {
	e, err := h.svc.ClockOut(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("staff_id"))
	if err != nil {
		h.fail(c, "clock_out_failed", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) breakStart(c *gin.Context) {
	e, err := h.svc.BreakStart(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("staff_id"))
	if err != nil {
		h.fail(c, "break_start_failed", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) breakEnd(c *gin.Context) {
	e, err := h.svc.BreakEnd(c.Request.Context(), auth.BusinessIDFrom(c), c.Param("staff_id"))
	if err != nil {
		h.fail(c, "break_end_failed", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) listClockEntries(c *gin.Context) {
	from, to, ok := dateRange(c)
	if !ok {
		return
	}
	es, err := h.svc.ListClockEntries(c.Request.Context(),
		c.Query("business_id"), c.Query("staff_id"), from, to)
	if err != nil {
		h.fail(c, "list_clock_entries_failed", err)
		return
	}
	c.JSON(http.StatusOK, es)
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context(), c.Query("business_id"))
	if err != nil {
		h.fail(c, "operations_dashboard_failed", err)
		return
	}
	c.JSON(http.StatusOK, d)
}
