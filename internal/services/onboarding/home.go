package onboarding

import (
	"time"

	"go.uber.org/zap"

	"github.com/kisansathi/assistant/internal/i18n"
)

// HomeView is what the main screen shows on load.
type HomeView struct {
	Greeting string `json:"greeting"`
	Reminder string `json:"reminder,omitempty"`
}

// Home builds the main-screen greeting and, on the first visit of a calendar
// day, the reminder banner. Showing the banner stamps the last-reminder date
// so later visits the same day stay quiet.
func (f *Flow) Home(now time.Time) HomeView {
	lang, _ := f.state.Language()
	tr := i18n.Lookup(lang.Code)

	view := HomeView{Greeting: tr.Greeting}

	today := now.Format("2006-01-02")
	if f.state.LastReminder() != today {
		view.Reminder = tr.ReminderText
		if err := f.state.SetLastReminder(today); err != nil {
			f.logger.Warn("reminder_stamp_failed", zap.Error(err))
		}
	}
	return view
}
