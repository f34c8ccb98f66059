package model

// Kind selects the timeline column a slot lives in.
type Kind string

const (
	KindPlan   Kind = "plan"
	KindActual Kind = "actual"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPlan, KindActual:
		return true
	}
	return false
}

type Category string

const (
	CategoryWork      Category = "Work"
	CategoryHealth    Category = "Health"
	CategoryStudy     Category = "Study"
	CategoryPersonal  Category = "Personal"
	CategoryGeneral   Category = "General"
	CategoryMeeting   Category = "Meeting"
	CategoryFocus     Category = "Focus"
	CategoryBreak     Category = "Break"
	CategoryLogistics Category = "Logistics"
	CategorySocial    Category = "Social"
	CategoryGrowth    Category = "Growth"
)

// Categories lists every category in dashboard order.
func Categories() []Category {
	return []Category{
		CategoryWork, CategoryMeeting, CategoryFocus, CategoryStudy,
		CategoryHealth, CategoryBreak, CategoryLogistics, CategorySocial,
		CategoryPersonal, CategoryGrowth, CategoryGeneral,
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryHealth, CategoryStudy, CategoryPersonal,
		CategoryGeneral, CategoryMeeting, CategoryFocus, CategoryBreak,
		CategoryLogistics, CategorySocial, CategoryGrowth:
		return true
	}
	return false
}

type Importance string

const (
	ImportanceLow         Importance = "low"
	ImportanceMedium      Importance = "medium"
	ImportanceHigh        Importance = "high"
	ImportanceAppointment Importance = "appointment"
)

func (i Importance) Valid() bool {
	switch i {
	case ImportanceLow, ImportanceMedium, ImportanceHigh, ImportanceAppointment:
		return true
	}
	return false
}

// Featured reports whether a slot of this importance is surfaced on the
// calendar grid.
func (i Importance) Featured() bool {
	switch i {
	case ImportanceHigh, ImportanceAppointment:
		return true
	case ImportanceLow, ImportanceMedium:
		return false
	}
	return false
}

type Cycle string

const (
	CycleDaily   Cycle = "daily"
	CycleWeekday Cycle = "weekday"
	CycleWeekend Cycle = "weekend"
	CycleCustom  Cycle = "custom"
)

func (c Cycle) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekday, CycleWeekend, CycleCustom:
		return true
	}
	return false
}

type DayType string

const (
	DayNormal   DayType = "normal"
	DayHoliday  DayType = "holiday"
	DayVacation DayType = "vacation"
)

func (d DayType) Valid() bool {
	switch d {
	case DayNormal, DayHoliday, DayVacation:
		return true
	}
	return false
}

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalOnHold    GoalStatus = "on_hold"
)

type GoalType string

const (
	GoalCareer     GoalType = "Career"
	GoalHealth     GoalType = "Health"
	GoalStudy      GoalType = "Study"
	GoalFinance    GoalType = "Finance"
	GoalHobby      GoalType = "Hobby"
	GoalPersonal   GoalType = "Personal"
	GoalNetworking GoalType = "Networking"
	GoalLearning   GoalType = "Learning"
	GoalLifestyle  GoalType = "Lifestyle"
	GoalTravel     GoalType = "Travel"
	GoalProject    GoalType = "Project"
)
