package models

// Station represents a bookable physical resource (a gaming rig, a turf
// court, a practice lane). The reservation engine treats stations as
// read-only; rates and operating hours are managed elsewhere.
type Station struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	Type        string  `bson:"type" json:"type"`                // resource category, e.g. "ps5", "turf"
	RatePerSlot float64 `bson:"ratePerSlot" json:"ratePerSlot"`  // price for one grid slot
	OpenMinute  int     `bson:"openMinute" json:"openMinute"`    // minutes from midnight (e.g., 540 for 9:00 AM)
	CloseMinute int     `bson:"closeMinute" json:"closeMinute"`  // minutes from midnight (e.g., 1320 for 10:00 PM)
	SlotMinutes int     `bson:"slotMinutes" json:"slotMinutes"`  // grid slot length, usually 60
	Active      bool    `bson:"active" json:"active"`
}

// SlotGrid expands the station's operating window into its fixed slot
// boundaries, as (start, end) minute pairs.
func (s *Station) SlotGrid() [][2]int {
	if s.SlotMinutes <= 0 || s.CloseMinute <= s.OpenMinute {
		return nil
	}
	var grid [][2]int
	for start := s.OpenMinute; start+s.SlotMinutes <= s.CloseMinute; start += s.SlotMinutes {
		grid = append(grid, [2]int{start, start + s.SlotMinutes})
	}
	return grid
}
