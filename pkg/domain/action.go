package domain

// Action names a mutating operation of the admin surface.
// The name doubles as the path segment that triggers it.
type Action string

const (
	ActionClear           Action = "clear"
	ActionUpdateReport    Action = "update_report"
	ActionCollectCoverage Action = "collect_coverage"
	ActionReloadFiles     Action = "reload_files"
)

// Notice is the human readable status shown on the index page after an action.
type Notice string

const (
	NoticeCleared       Notice = "coverage cleared"
	NoticeReportUpdated Notice = "coverage report updated"
	NoticeCollected     Notice = "coverage collected"
	NoticeReloaded      Notice = "files reloaded"
)

// Notice returns the notice reported after a successful run of the action.
func (a Action) Notice() Notice {
	switch a {
	case ActionClear:
		return NoticeCleared
	case ActionUpdateReport:
		return NoticeReportUpdated
	case ActionCollectCoverage:
		return NoticeCollected
	case ActionReloadFiles:
		return NoticeReloaded
	}
	return ""
}

// ReportKey is the object storage key of the rendered report's root document.
const ReportKey = "tally/index.html"
