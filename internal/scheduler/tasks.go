package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCheckinReminder = "bookings.checkin_reminder"

// CheckinReminderPayload identifies the booking a reminder task is for. The
// worker re-reads the booking at fire time, so the payload stays minimal.
type CheckinReminderPayload struct {
	BookingID string `json:"bookingId"`
}

func NewCheckinReminderTask(payload CheckinReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCheckinReminder, data), nil
}

func ParseCheckinReminderPayload(task *asynq.Task) (CheckinReminderPayload, error) {
	var payload CheckinReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CheckinReminderPayload{}, err
	}
	return payload, nil
}
