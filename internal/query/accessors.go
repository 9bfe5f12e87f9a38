package query

import (
	"slices"
	"time"

	"eventlog/internal/models"
)

// Accessors answers the fixed, pre-built questions about a source. Each
// method is a Where over the source followed by a projection or a count.
type Accessors struct {
	src Source
}

// NewAccessors returns the typed query API over src.
func NewAccessors(src Source) *Accessors {
	return &Accessors{src: src}
}

func (a *Accessors) where(rng Range, preds ...Predicate) []models.Record {
	return Where(a.src.All(), append([]Predicate{Within(rng)}, preds...)...)
}

func (a *Accessors) project(rng Range, field FieldName, preds ...Predicate) ValueSet {
	return Project(slices.Values(a.where(rng, preds...)), field)
}

func userIs(user string) Predicate {
	return Equals(Describe(FieldUser), StringValue(user))
}

func ipIs(ip string) Predicate {
	return Equals(Describe(FieldIP), StringValue(ip))
}

func stringsOf(s ValueSet) []string {
	return s.Strings()
}

func datesOf(s ValueSet) []time.Time {
	vals := s.Values()
	out := make([]time.Time, len(vals))
	for i, v := range vals {
		out[i] = v.Time()
	}
	return out
}

func eventsOf(s ValueSet) []models.Event {
	vals := s.Values()
	out := make([]models.Event, len(vals))
	for i, v := range vals {
		out[i] = v.Event()
	}
	return out
}

func earliest(records []models.Record) (time.Time, bool) {
	if len(records) == 0 {
		return time.Time{}, false
	}
	first := records[0].Date
	for _, r := range records[1:] {
		if r.Date.Before(first) {
			first = r.Date
		}
	}
	return first, true
}

func countByTask(records []models.Record) map[int]int {
	out := make(map[int]int)
	for _, r := range records {
		if id, ok := r.Task.Get(); ok {
			out[id]++
		}
	}
	return out
}

// IP queries.

func (a *Accessors) NumberOfUniqueIPs(rng Range) int {
	return a.project(rng, FieldIP).Len()
}

func (a *Accessors) UniqueIPs(rng Range) []string {
	return stringsOf(a.project(rng, FieldIP))
}

func (a *Accessors) IPsForUser(user string, rng Range) []string {
	return stringsOf(a.project(rng, FieldIP, userIs(user)))
}

func (a *Accessors) IPsForEvent(e models.Event, rng Range) []string {
	return stringsOf(a.project(rng, FieldIP, EventIs(e)))
}

func (a *Accessors) IPsForStatus(s models.Status, rng Range) []string {
	return stringsOf(a.project(rng, FieldIP, StatusIs(s)))
}

// User queries.

// AllUsers ignores dates entirely.
func (a *Accessors) AllUsers() []string {
	return stringsOf(Project(a.src.All(), FieldUser))
}

func (a *Accessors) NumberOfUsers(rng Range) int {
	return a.project(rng, FieldUser).Len()
}

// NumberOfUserEvents counts the distinct events of user.
func (a *Accessors) NumberOfUserEvents(user string, rng Range) int {
	return a.project(rng, FieldEvent, userIs(user)).Len()
}

func (a *Accessors) UsersForIP(ip string, rng Range) []string {
	return stringsOf(a.project(rng, FieldUser, ipIs(ip)))
}

func (a *Accessors) LoggedUsers(rng Range) []string {
	return stringsOf(a.project(rng, FieldUser, EventIs(models.EventLogin)))
}

func (a *Accessors) DownloadedPluginUsers(rng Range) []string {
	return stringsOf(a.project(rng, FieldUser, EventIs(models.EventDownloadPlugin)))
}

func (a *Accessors) WroteMessageUsers(rng Range) []string {
	return stringsOf(a.project(rng, FieldUser, EventIs(models.EventWriteMessage)))
}

// SolvedTaskUsers lists users with SOLVE_TASK events, optionally for one task.
func (a *Accessors) SolvedTaskUsers(rng Range, task ...int) []string {
	return stringsOf(a.project(rng, FieldUser, taskPreds(models.EventSolveTask, task)...))
}

// DoneTaskUsers lists users with DONE_TASK events, optionally for one task.
func (a *Accessors) DoneTaskUsers(rng Range, task ...int) []string {
	return stringsOf(a.project(rng, FieldUser, taskPreds(models.EventDoneTask, task)...))
}

func taskPreds(e models.Event, task []int) []Predicate {
	preds := []Predicate{EventIs(e)}
	if len(task) > 0 {
		preds = append(preds, TaskIs(task[0]))
	}
	return preds
}

// Date queries.

func (a *Accessors) DatesForUserAndEvent(user string, e models.Event, rng Range) []time.Time {
	return datesOf(a.project(rng, FieldDate, userIs(user), EventIs(e)))
}

func (a *Accessors) DatesWhenSomethingFailed(rng Range) []time.Time {
	return datesOf(a.project(rng, FieldDate, StatusIs(models.StatusFailed)))
}

func (a *Accessors) DatesWhenErrorHappened(rng Range) []time.Time {
	return datesOf(a.project(rng, FieldDate, StatusIs(models.StatusError)))
}

// DateWhenUserLoggedFirstTime returns the earliest successful LOGIN of user.
func (a *Accessors) DateWhenUserLoggedFirstTime(user string, rng Range) (time.Time, bool) {
	return earliest(a.where(rng, userIs(user), EventIs(models.EventLogin), StatusIs(models.StatusOK)))
}

func (a *Accessors) DateWhenUserSolvedTask(user string, task int, rng Range) (time.Time, bool) {
	return earliest(a.where(rng, userIs(user), EventIs(models.EventSolveTask), TaskIs(task)))
}

func (a *Accessors) DateWhenUserDoneTask(user string, task int, rng Range) (time.Time, bool) {
	return earliest(a.where(rng, userIs(user), EventIs(models.EventDoneTask), TaskIs(task)))
}

func (a *Accessors) DatesWhenUserWroteMessage(user string, rng Range) []time.Time {
	return datesOf(a.project(rng, FieldDate, userIs(user), EventIs(models.EventWriteMessage)))
}

func (a *Accessors) DatesWhenUserDownloadedPlugin(user string, rng Range) []time.Time {
	return datesOf(a.project(rng, FieldDate, userIs(user), EventIs(models.EventDownloadPlugin)))
}

// Event queries.

// NumberOfAllEvents counts distinct event kinds, not records.
func (a *Accessors) NumberOfAllEvents(rng Range) int {
	return a.project(rng, FieldEvent).Len()
}

func (a *Accessors) AllEvents(rng Range) []models.Event {
	return eventsOf(a.project(rng, FieldEvent))
}

func (a *Accessors) EventsForIP(ip string, rng Range) []models.Event {
	return eventsOf(a.project(rng, FieldEvent, ipIs(ip)))
}

func (a *Accessors) EventsForUser(user string, rng Range) []models.Event {
	return eventsOf(a.project(rng, FieldEvent, userIs(user)))
}

func (a *Accessors) FailedEvents(rng Range) []models.Event {
	return eventsOf(a.project(rng, FieldEvent, StatusIs(models.StatusFailed)))
}

func (a *Accessors) ErrorEvents(rng Range) []models.Event {
	return eventsOf(a.project(rng, FieldEvent, StatusIs(models.StatusError)))
}

// NumberOfAttemptToSolveTask counts SOLVE_TASK records for task.
func (a *Accessors) NumberOfAttemptToSolveTask(task int, rng Range) int {
	return len(a.where(rng, EventIs(models.EventSolveTask), TaskIs(task)))
}

// NumberOfSuccessfulAttemptToSolveTask counts DONE_TASK records for task.
func (a *Accessors) NumberOfSuccessfulAttemptToSolveTask(task int, rng Range) int {
	return len(a.where(rng, EventIs(models.EventDoneTask), TaskIs(task)))
}

// AllSolvedTasksAndTheirNumber maps task id to its SOLVE_TASK record count.
func (a *Accessors) AllSolvedTasksAndTheirNumber(rng Range) map[int]int {
	return countByTask(a.where(rng, EventIs(models.EventSolveTask)))
}

// AllDoneTasksAndTheirNumber maps task id to its DONE_TASK record count.
func (a *Accessors) AllDoneTasksAndTheirNumber(rng Range) map[int]int {
	return countByTask(a.where(rng, EventIs(models.EventDoneTask)))
}
