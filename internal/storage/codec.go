package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	laneserrors "github.com/abatilo/lanes/internal/errors"
	"github.com/abatilo/lanes/internal/task"
)

// taskRecord is the persisted shape of a task. Older boards wrote edited
// timestamps as quoted strings, so numeric fields accept both forms.
type taskRecord struct {
	ID       flexInt    `json:"id"`
	Text     string     `json:"text"`
	StartDay flexInt    `json:"startDay"`
	EndDay   flexInt    `json:"endDay"`
	Type     task.Stage `json:"type"`
}

// flexInt decodes a JSON integer or a string holding one. Fractions, exponents
// and values outside int64 are rejected.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	n, err := num.Int64()
	if err != nil {
		return fmt.Errorf("not an integer: %s", num)
	}
	*f = flexInt(n)
	return nil
}

// EncodeTasks serializes the list as a JSON array in list order.
func EncodeTasks(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return json.Marshal(tasks)
}

// DecodeTasks parses a persisted task list.
func DecodeTasks(data []byte) ([]task.Task, error) {
	var records []taskRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, laneserrors.MalformedDataError{Reason: err.Error()}
	}

	tasks := make([]task.Task, 0, len(records))
	seen := make(map[flexInt]bool, len(records))
	for _, r := range records {
		if seen[r.ID] {
			return nil, laneserrors.MalformedDataError{Reason: fmt.Sprintf("duplicate task id %d", r.ID)}
		}
		seen[r.ID] = true
		tasks = append(tasks, task.Task{
			ID:       int64(r.ID),
			Text:     r.Text,
			StartDay: int64(r.StartDay),
			EndDay:   int64(r.EndDay),
			Type:     r.Type,
		})
	}
	return tasks, nil
}
