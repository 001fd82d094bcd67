package adminapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/jobdesk/internal/webserver"
)

type schedulerEntry struct {
	ID   int       `json:"id"`
	Next time.Time `json:"next"`
	Prev time.Time `json:"prev"`
}

// registerSchedulerRoutes registers scheduler API routes
func registerSchedulerRoutes() {
	webserver.ApiGET("/schedulers", ListSchedulers)
	webserver.ApiPOST("/schedulers/overdue/run", TriggerOverdueSweep)
}

// ListSchedulers lists the registered cron entries with their next run time
func ListSchedulers(c echo.Context) error {
	sched := GetAppContext(c).Scheduler()
	entries := make([]schedulerEntry, 0)
	if sched != nil {
		for _, e := range sched.Entries() {
			entries = append(entries, schedulerEntry{ID: int(e.ID), Next: e.Next, Prev: e.Prev})
		}
	}
	return ok(c, entries)
}

// TriggerOverdueSweep runs the overdue sweep immediately
func TriggerOverdueSweep(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Minute)
	defer cancel()
	n, err := GetAppContext(c).SweepOverdue(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "RUN_FAILED", "Failed to run overdue sweep", err.Error())
	}
	return ok(c, map[string]interface{}{"marked": n})
}
