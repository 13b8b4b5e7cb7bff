package courier

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	courierDatamodel "github.com/frahmantamala/marketplace/internal/core/datamodel/courier"
)

// WorkingHours is a daily window in "HH:MM" local time. Start after End
// means the window runs past midnight.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Courier struct {
	ID           string        `json:"id"`
	UserID       *string       `json:"user_id,omitempty"`
	Name         string        `json:"name"`
	Phone        string        `json:"phone"`
	IsActive     bool          `json:"is_active"`
	IsOnline     bool          `json:"is_online"`
	Banned       bool          `json:"banned"`
	WorkingHours *WorkingHours `json:"working_hours"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func NewCourier(name, phone string, userID *string) *Courier {
	now := time.Now()
	return &Courier{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Phone:     phone,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// parseClock returns minutes since midnight for a zero padded "HH:MM".
func parseClock(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// IsWithinWorkingHours compares at minute resolution with both bounds
// inclusive. A courier without working hours is always within them.
func IsWithinWorkingHours(now time.Time, wh *WorkingHours) bool {
	if wh == nil {
		return true
	}
	start, ok := parseClock(wh.Start)
	if !ok {
		return false
	}
	end, ok := parseClock(wh.End)
	if !ok {
		return false
	}

	current := now.Hour()*60 + now.Minute()
	if start <= end {
		return current >= start && current <= end
	}
	return current >= start || current <= end
}

func ShouldBeActive(c *Courier, now time.Time) bool {
	if c == nil {
		return false
	}
	return c.IsActive && !c.Banned && IsWithinWorkingHours(now, c.WorkingHours)
}

func (c *Courier) View(now time.Time) CourierView {
	return CourierView{
		Courier:        *c,
		ShouldBeActive: ShouldBeActive(c, now),
	}
}

func ToDataModel(c *Courier) *courierDatamodel.Courier {
	dm := &courierDatamodel.Courier{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Phone:     c.Phone,
		IsActive:  c.IsActive,
		IsOnline:  c.IsOnline,
		Banned:    c.Banned,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.WorkingHours != nil {
		start, end := c.WorkingHours.Start, c.WorkingHours.End
		dm.WorkingHoursStart = &start
		dm.WorkingHoursEnd = &end
	}
	return dm
}

// FromDataModel drops a half-configured window; only a full pair restricts availability.
func FromDataModel(dm *courierDatamodel.Courier) *Courier {
	c := &Courier{
		ID:        dm.ID,
		UserID:    dm.UserID,
		Name:      dm.Name,
		Phone:     dm.Phone,
		IsActive:  dm.IsActive,
		IsOnline:  dm.IsOnline,
		Banned:    dm.Banned,
		CreatedAt: dm.CreatedAt,
		UpdatedAt: dm.UpdatedAt,
	}
	if dm.WorkingHoursStart != nil && dm.WorkingHoursEnd != nil {
		c.WorkingHours = &WorkingHours{Start: *dm.WorkingHoursStart, End: *dm.WorkingHoursEnd}
	}
	return c
}
