package api

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/contenthub/internal/calendar"
	"github.com/nhle/contenthub/internal/model"
)

type calendarResponse struct {
	calendar.Window
	Ideas      []model.Idea            `json:"ideas"`
	IdeasByDay map[string][]model.Idea `json:"ideas_by_day"`
}

// handleCalendar returns the 6-week grid for ?year=&month= (default: the
// current month) and every idea inside it.
func (s *Server) handleCalendar(c *gin.Context) {
	today := s.today()
	year, month := today.Year(), today.Month()

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			respondBindError(c, fmt.Errorf("invalid year %q", v))
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			respondBindError(c, fmt.Errorf("invalid month %q", v))
			return
		}
		month = time.Month(m)
	}

	window, err := calendar.MonthWindow(year, month)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	ideas, err := s.store.ListIdeasInRange(c.Request.Context(), window.RangeStart, window.RangeEnd)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	if ideas == nil {
		ideas = []model.Idea{}
	}

	byDay := make(map[string][]model.Idea)
	for day, list := range calendar.GroupByDay(ideas) {
		byDay[day.String()] = list
	}

	RespondOK(c, calendarResponse{Window: window, Ideas: ideas, IdeasByDay: byDay})
}
