package query

import (
	"testing"
	"time"

	"eventlog/internal/models"
	"eventlog/internal/store"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func at(day, month, year, h, m, s int) time.Time {
	return time.Date(year, time.Month(month), day, h, m, s, 0, time.UTC)
}

func record(ip, user string, date time.Time, event models.Event, task models.Task, status models.Status) models.Record {
	return models.Record{IP: ip, User: user, Date: date, Event: event, Task: task, Status: status}
}

// fixture is a small log covering every event and status.
func fixture() *store.Store {
	return store.New([]models.Record{
		record("127.0.0.1", "Amigo", at(30, 8, 2012, 16, 8, 13), models.EventLogin, models.NoTask, models.StatusOK),
		record("127.0.0.1", "Amigo", at(30, 8, 2012, 16, 8, 40), models.EventDoneTask, models.TaskID(15), models.StatusOK),
		record("192.168.100.2", "Vasya Pupkin", at(30, 1, 2014, 12, 56, 22), models.EventSolveTask, models.TaskID(18), models.StatusError),
		record("192.168.100.2", "Vasya Pupkin", at(14, 11, 2015, 7, 8, 1), models.EventWriteMessage, models.NoTask, models.StatusOK),
		record("146.34.15.5", "Eduard Petrovich Morozko", at(13, 9, 2013, 5, 4, 50), models.EventDownloadPlugin, models.NoTask, models.StatusFailed),
		record("146.34.15.5", "Eduard Petrovich Morozko", at(12, 12, 2013, 21, 56, 30), models.EventLogin, models.NoTask, models.StatusOK),
		record("146.34.15.5", "Eduard Petrovich Morozko", at(3, 1, 2014, 3, 45, 23), models.EventSolveTask, models.TaskID(18), models.StatusOK),
		record("146.34.15.5", "Eduard Petrovich Morozko", at(11, 12, 2013, 10, 11, 12), models.EventDoneTask, models.TaskID(48), models.StatusFailed),
		record("12.12.12.12", "Amigo", at(21, 10, 2021, 19, 45, 25), models.EventSolveTask, models.TaskID(18), models.StatusOK),
		record("120.120.120.122", "Amigo", at(29, 2, 2028, 5, 4, 7), models.EventSolveTask, models.TaskID(18), models.StatusOK),
		record("127.0.0.1", "Vasya", at(19, 3, 2016, 0, 0, 0), models.EventSolveTask, models.TaskID(0), models.StatusOK),
	})
}
