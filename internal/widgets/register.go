package widgets

import "zoe/internal/widget"

// RegisterAll installs the full widget catalogue into reg. The host calls this
// once at startup with its wired dependencies; tests register only what they
// need into their own registries.
func RegisterAll(reg *widget.Registry, deps Deps) {
	reg.Register("home", NewHome(deps))
	reg.Register("time", NewClock(deps))
	reg.Register("weather", NewWeather(deps))
	reg.Register("events", NewEvents(deps))
	reg.Register("weekplanner", NewWeekPlanner(deps))
	reg.Register("journal", NewJournal(deps))
	reg.Register("notes", NewNotes(deps))
	reg.Register("music", NewMusic(deps))
	reg.Register("system", NewSystem(deps))
	reg.Register("orb", NewOrb(deps))

	reg.Register("tasks", NewTasks(deps))
	reg.Register("shopping", NewShopping(deps))
	reg.Register("personal", NewPersonal(deps))
	reg.Register("bucket", NewBucket(deps))
	reg.Register("reminders", NewReminders(deps))
	reg.Register("projects", NewProjects(deps))
	reg.Register("dynamiclist", NewDynamicList(deps))
}
