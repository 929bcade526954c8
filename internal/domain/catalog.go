package domain

// Category names one kind of reminder.
type Category string

const (
	Wake      Category = "wake"
	Sleep     Category = "sleep"
	WorkStart Category = "work_start"
	WorkEnd   Category = "work_end"
	Breakfast Category = "breakfast"
	Lunch     Category = "lunch"
	Dinner    Category = "dinner"
	Exercise  Category = "exercise"

	Water   Category = "water"
	Break   Category = "break"
	Eye     Category = "eye"
	Posture Category = "posture"
)

// Kind tells how a definition is scheduled.
type Kind int

const (
	// KindPoint fires once at a configured HH:MM.
	KindPoint Kind = iota
	// KindInterval fires every N minutes inside a daily window.
	KindInterval
)

func (k Kind) String() string {
	if k == KindInterval {
		return "interval"
	}
	return "point"
}

// Definition describes one catalog entry.
type Definition struct {
	Category     Category
	Kind         Kind
	EventKey     string // last_fire key for point events
	Title        string
	WorkdaysOnly bool
}

// Catalog is the fixed, ordered list of reminders every user is evaluated against.
var Catalog = []Definition{
	{Category: Wake, Kind: KindPoint, EventKey: "wake", Title: "Wake up"},
	{Category: Breakfast, Kind: KindPoint, EventKey: "breakfast", Title: "Breakfast"},
	{Category: WorkStart, Kind: KindPoint, EventKey: "work_start", Title: "Work start", WorkdaysOnly: true},
	{Category: Lunch, Kind: KindPoint, EventKey: "lunch", Title: "Lunch"},
	{Category: WorkEnd, Kind: KindPoint, EventKey: "work_end", Title: "Work end", WorkdaysOnly: true},
	{Category: Exercise, Kind: KindPoint, EventKey: "exercise", Title: "Exercise"},
	{Category: Dinner, Kind: KindPoint, EventKey: "dinner", Title: "Dinner"},
	{Category: Sleep, Kind: KindPoint, EventKey: "sleep", Title: "Sleep"},

	{Category: Water, Kind: KindInterval, Title: "Water"},
	{Category: Break, Kind: KindInterval, Title: "Break"},
	{Category: Eye, Kind: KindInterval, Title: "Eye care"},
	{Category: Posture, Kind: KindInterval, Title: "Posture"},
}

// Lookup returns the catalog entry for c.
func Lookup(c Category) (Definition, bool) {
	for _, d := range Catalog {
		if d.Category == c {
			return d, true
		}
	}
	return Definition{}, false
}

// Categories returns catalog categories of the given kind, in catalog order.
func Categories(k Kind) []Category {
	var out []Category
	for _, d := range Catalog {
		if d.Kind == k {
			out = append(out, d.Category)
		}
	}
	return out
}
