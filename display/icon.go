package display

import "time"

// Icon identifies one of the dedicated indicator LEDs around the text
// area. Status icons run down the two leftmost columns, weekday icons
// along the top row.
type Icon uint8

const (
	IconMoveOn Icon = iota
	IconAlarmOn
	IconCountDown
	IconFahrenheit
	IconCelsius
	IconAM
	IconPM
	IconCountUp
	IconHourly
	IconAutoLight
	IconMon
	IconTue
	IconWed
	IconThu
	IconFri
	IconSat
	IconSun
	iconCount
)

// iconCell fixes where an icon lives on the grid.
type iconCell struct {
	row, col, width int
}

var iconCells = [iconCount]iconCell{
	IconMoveOn:     {0, 0, 2},
	IconAlarmOn:    {1, 0, 2},
	IconCountDown:  {2, 0, 2},
	IconFahrenheit: {3, 0, 1},
	IconCelsius:    {3, 1, 1},
	IconAM:         {4, 0, 1},
	IconPM:         {4, 1, 1},
	IconCountUp:    {5, 0, 2},
	IconHourly:     {6, 0, 2},
	IconAutoLight:  {7, 0, 2},
	IconMon:        {0, 3, 2},
	IconTue:        {0, 6, 2},
	IconWed:        {0, 9, 2},
	IconThu:        {0, 12, 2},
	IconFri:        {0, 15, 2},
	IconSat:        {0, 18, 2},
	IconSun:        {0, 21, 2},
}

var iconNames = [iconCount]string{
	"MoveOn", "AlarmOn", "CountDown", "DegF", "DegC", "AM", "PM",
	"CountUp", "Hourly", "AutoLight", "Mon", "Tue", "Wed", "Thu",
	"Fri", "Sat", "Sun",
}

func (i Icon) String() string {
	if i >= iconCount {
		return "Icon(?)"
	}
	return iconNames[i]
}

// IconForWeekday maps a calendar weekday to its top-row icon.
func IconForWeekday(d time.Weekday) Icon {
	switch d {
	case time.Monday:
		return IconMon
	case time.Tuesday:
		return IconTue
	case time.Wednesday:
		return IconWed
	case time.Thursday:
		return IconThu
	case time.Friday:
		return IconFri
	case time.Saturday:
		return IconSat
	default:
		return IconSun
	}
}
