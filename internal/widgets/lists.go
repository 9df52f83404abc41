package widgets

import (
	"time"

	"zoe/internal/widget"
)

// The list-style widget family. Each type is one backend list plus a
// descriptor; everything else is ListWidget.

func NewTasks(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return newListWidget(widget.Descriptor{
			Type:           "tasks",
			Version:        "1.2",
			DefaultSize:    widget.SizeMedium,
			UpdateInterval: time.Minute,
			Capabilities:   []string{"local-archive"},
		}, "Tasks", "tasks", false, deps), nil
	}
}

func NewShopping(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		// Shopping rides the realtime channel so two people in the kitchen
		// see each other's edits; the 30s interval is the degrade path.
		return newListWidget(widget.Descriptor{
			Type:           "shopping",
			Version:        "1.3",
			DefaultSize:    widget.SizeMedium,
			UpdateInterval: 30 * time.Second,
			Capabilities:   []string{"realtime", "local-archive"},
		}, "Shopping", "shopping", true, deps), nil
	}
}

func NewPersonal(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return newListWidget(widget.Descriptor{
			Type:           "personal",
			Version:        "1.1",
			DefaultSize:    widget.SizeMedium,
			UpdateInterval: time.Minute,
			Capabilities:   []string{"local-archive"},
		}, "Personal", "personal", false, deps), nil
	}
}

func NewBucket(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return newListWidget(widget.Descriptor{
			Type:           "bucket",
			Version:        "1.0",
			DefaultSize:    widget.SizeSmall,
			UpdateInterval: 5 * time.Minute,
			Capabilities:   []string{"local-archive"},
		}, "Bucket List", "bucket", false, deps), nil
	}
}

func NewReminders(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return newListWidget(widget.Descriptor{
			Type:           "reminders",
			Version:        "1.1",
			DefaultSize:    widget.SizeSmall,
			UpdateInterval: time.Minute,
			Capabilities:   []string{"local-archive"},
		}, "Reminders", "reminders", false, deps), nil
	}
}

func NewProjects(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		return newListWidget(widget.Descriptor{
			Type:           "projects",
			Version:        "1.0",
			DefaultSize:    widget.SizeLarge,
			UpdateInterval: 5 * time.Minute,
			Capabilities:   []string{"local-archive"},
		}, "Projects", "projects", false, deps), nil
	}
}

// NewDynamicList mounts an arbitrary backend list chosen per slot via the
// "list" option, so users can pin any custom list to the dashboard.
func NewDynamicList(deps Deps) widget.Factory {
	return func(opts widget.Options) (widget.Widget, error) {
		listType := opts.Param("list")
		if listType == "" {
			listType = "custom"
		}
		title := opts.Title
		if title == "" {
			title = listType
		}
		return newListWidget(widget.Descriptor{
			Type:           "dynamiclist",
			Version:        "1.0",
			DefaultSize:    widget.SizeMedium,
			UpdateInterval: time.Minute,
			Capabilities:   []string{"local-archive"},
		}, title, listType, false, deps), nil
	}
}
