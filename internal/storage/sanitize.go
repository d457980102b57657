package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"tachyon/internal/task"
)

// decodeTasks parses a stored task list and repairs each entry field by
// field. Only a payload that is not a JSON array is an error.
func decodeTasks(data []byte, ids task.IDGenerator) ([]task.Task, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode task list: %w", err)
	}
	if entries == nil {
		return nil, fmt.Errorf("decode task list: not an array")
	}

	tasks := make([]task.Task, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		t := sanitizeTask(decodeObject(entry), ids)
		if _, dup := seen[t.ID]; dup {
			t.ID = uniqueID(ids, seen)
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// decodeObject returns the fields of a JSON object, or nil for any other
// JSON value.
func decodeObject(entry json.RawMessage) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil
	}
	return fields
}

func sanitizeTask(fields map[string]any, ids task.IDGenerator) task.Task {
	t := task.Task{
		Completed: truthy(fields["completed"]),
		Priority:  task.PriorityMedium,
	}
	if id, ok := scalarString(fields["id"]); ok {
		t.ID = id
	} else {
		t.ID = ids.Generate()
	}
	t.Text, _ = scalarString(fields["text"])
	if p, ok := fields["priority"].(string); ok && task.Priority(p).Valid() {
		t.Priority = task.Priority(p)
	}
	if s, ok := fields["dueDate"].(string); ok {
		if d, err := task.ParseDate(s); err == nil {
			t.DueDate = &d
		}
	}
	return t
}

func uniqueID(ids task.IDGenerator, seen map[string]struct{}) string {
	for {
		id := ids.Generate()
		if _, dup := seen[id]; !dup {
			return id
		}
	}
}

// scalarString renders a non-empty string, non-zero number or true as text.
// Any other value reports false.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, x != ""
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return "", false
		}
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), x
	}
	return "", false
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case map[string]any, []any:
		return true
	}
	return false
}
