// Package taskdetail implements the presentation logic of the task detail
// screen: it turns user actions into repository calls and repository results
// into view updates.
package taskdetail

// Actions is the set of user intents a View forwards to its presenter.
type Actions interface {
	Subscribe()
	Unsubscribe()
	EditTask()
	DeleteTask()
	CompleteTask()
	ActivateTask()
}

// View is the rendering side of the task detail screen.
// All methods are called on the UI goroutine.
type View interface {
	// SetPresenter hands the view the presenter it forwards user actions to.
	SetPresenter(p Actions)

	SetLoadingIndicator(active bool)
	ShowMissingTask()

	// ShowTitle shows the title element. title may be nil.
	ShowTitle(title *string)
	HideTitle()

	// ShowDescription shows the description element. description may be nil.
	ShowDescription(description *string)
	HideDescription()

	ShowCompletionStatus(completed bool)

	// ShowEditTask navigates to the edit screen for the task.
	ShowEditTask(taskID string)

	ShowTaskDeleted()
	ShowTaskMarkedComplete()
	ShowTaskMarkedActive()

	// IsActive reports whether the view can still take updates.
	IsActive() bool
}

// Scheduler runs work on an execution context.
type Scheduler interface {
	Post(fn func())
}
