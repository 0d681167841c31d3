package models

import "time"

// DayHours holds the opening hours of one weekday in Finland local time.
// A nil hour means the value has not been configured.
type DayHours struct {
	OpenHour    *int `json:"hours" validate:"omitempty,gte=0,lte=23"`
	OpenMinute  *int `json:"minutes" validate:"omitempty,gte=0,lte=59"`
	CloseHour   *int `json:"closeHours" validate:"omitempty,gte=0,lte=24"`
	CloseMinute *int `json:"closeMinutes" validate:"omitempty,gte=0,lte=59"`
	IsClosed    bool `json:"isClosed"`
}

// HasTimes reports whether both the opening and closing hour are set
func (d *DayHours) HasTimes() bool {
	return d != nil && d.OpenHour != nil && d.CloseHour != nil
}

// WeekHours maps each weekday to its opening hours
type WeekHours struct {
	Monday    *DayHours `json:"monday"`
	Tuesday   *DayHours `json:"tuesday"`
	Wednesday *DayHours `json:"wednesday"`
	Thursday  *DayHours `json:"thursday"`
	Friday    *DayHours `json:"friday"`
	Saturday  *DayHours `json:"saturday"`
	Sunday    *DayHours `json:"sunday"`
}

// ForDay returns the hours of the given weekday, or nil when not configured
func (w *WeekHours) ForDay(day time.Weekday) *DayHours {
	if w == nil {
		return nil
	}
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	case time.Sunday:
		return w.Sunday
	}
	return nil
}

// Campus groups the weekly business hours of one campus. Shorthand joins
// against Room.Building.
type Campus struct {
	Name      string    `json:"name" validate:"required"`
	Shorthand string    `json:"shorthand" validate:"required,max=16"`
	ImageURL  string    `json:"ImageUrl,omitempty"`
	Hours     WeekHours `json:"hours"`
}

// BusinessHours is the document shape served to the admin and screen apps
type BusinessHours struct {
	Campuses []*Campus `json:"campuses"`
}

// Clone returns a deep copy of the week
func (w WeekHours) Clone() WeekHours {
	return WeekHours{
		Monday:    w.Monday.clone(),
		Tuesday:   w.Tuesday.clone(),
		Wednesday: w.Wednesday.clone(),
		Thursday:  w.Thursday.clone(),
		Friday:    w.Friday.clone(),
		Saturday:  w.Saturday.clone(),
		Sunday:    w.Sunday.clone(),
	}
}

func (d *DayHours) clone() *DayHours {
	if d == nil {
		return nil
	}
	return &DayHours{
		OpenHour:    cloneInt(d.OpenHour),
		OpenMinute:  cloneInt(d.OpenMinute),
		CloseHour:   cloneInt(d.CloseHour),
		CloseMinute: cloneInt(d.CloseMinute),
		IsClosed:    d.IsClosed,
	}
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
