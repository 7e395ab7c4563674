package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bizlink/bizlink-admin/internal/crud"
	"github.com/bizlink/bizlink-admin/internal/models"
	"github.com/bizlink/bizlink-admin/internal/notify"
	"github.com/bizlink/bizlink-admin/pkg/logger"
	"github.com/bizlink/bizlink-admin/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
)

// KindReminder tags reminder notifications.
const KindReminder = "event-reminder"

// SweepResult summarises one pass.
type SweepResult struct {
	Events int
	Sent   int
	Failed int
	Marked int
}

// Reminder is a background worker that notifies attendees of events starting
// within the window and marks each event so it is reminded only once.
type Reminder struct {
	events   crud.Repository[*models.CalendarEvent]
	notifier notify.Notifier
	interval time.Duration
	window   time.Duration
	now      func() time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewReminder creates the worker. interval is how often Sweep runs, window
// how far ahead of now an event may start to be picked up.
func NewReminder(events crud.Repository[*models.CalendarEvent], n notify.Notifier, interval, window time.Duration) *Reminder {
	if interval <= 0 {
		interval = time.Hour
	}
	if window <= 0 {
		window = time.Hour
	}
	return &Reminder{
		events:   events,
		notifier: n,
		interval: interval,
		window:   window,
		now:      func() time.Time { return time.Now().UTC() },
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop. The first sweep runs immediately.
func (r *Reminder) Start() {
	r.wg.Add(1)
	go r.run()
	logger.Infof("reminder worker started interval=%s window=%s", r.interval, r.window)
}

// Stop signals the worker to stop and waits for the running sweep to finish.
func (r *Reminder) Stop() {
	close(r.stopCh)
	r.wg.Wait()
	logger.Infof("reminder worker stopped")
}

func (r *Reminder) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick()
	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Reminder) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := r.Sweep(ctx); err != nil {
		logger.Errorf("reminder sweep: %v", err)
	}
}

// Sweep runs one pass. Delivery is best effort: a failed notification is
// logged and counted but does not keep the event unmarked, and one event
// failing to be marked does not stop the others.
func (r *Reminder) Sweep(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	now := r.now()
	f := crud.Where("reminderSent", false)
	f.Range = map[string]crud.TimeRange{"startsAt": {From: now, To: now.Add(r.window)}}

	due, err := r.events.Find(ctx, f, crud.Page{SortField: "startsAt", Asc: true})
	if err != nil {
		metrics.ReminderSweeps.WithLabelValues("error").Inc()
		return res, fmt.Errorf("load due events: %w", err)
	}
	res.Events = len(due)

	for _, ev := range due {
		for _, attendee := range ev.Attendees {
			err := r.notifier.Notify(ctx, notify.Message{
				MemberID: attendee.Hex(),
				Kind:     KindReminder,
				Title:    ev.Title,
				Body:     reminderBody(ev),
				Ref:      ev.ID.Hex(),
				SentAt:   now,
			})
			if err != nil {
				res.Failed++
				metrics.RemindersSent.WithLabelValues("failed").Inc()
				logger.Warnf("reminder for event %s to %s: %v", ev.ID.Hex(), attendee.Hex(), err)
				continue
			}
			res.Sent++
			metrics.RemindersSent.WithLabelValues("sent").Inc()
		}
		if err := r.events.Update(ctx, ev.ID, bson.M{"reminderSent": true}); err != nil {
			logger.Errorf("mark event %s reminded: %v", ev.ID.Hex(), err)
			continue
		}
		res.Marked++
	}

	metrics.ReminderSweeps.WithLabelValues("ok").Inc()
	if res.Events > 0 {
		logger.Infow("reminder sweep", "events", res.Events, "sent", res.Sent, "failed", res.Failed, "marked", res.Marked)
	}
	return res, nil
}

func reminderBody(ev *models.CalendarEvent) string {
	when := ev.StartsAt.UTC().Format("Mon 2 Jan 15:04 MST")
	if ev.Location != "" {
		return fmt.Sprintf("%s starts %s at %s", ev.Title, when, ev.Location)
	}
	return fmt.Sprintf("%s starts %s", ev.Title, when)
}
