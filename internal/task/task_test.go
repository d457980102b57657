package task

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in   string
		want Priority
		ok   bool
	}{
		{"high", PriorityHigh, true},
		{" Medium ", PriorityMedium, true},
		{"LOW", PriorityLow, true},
		{"urgent", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePriority(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range Priorities() {
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, Priority("High").Valid())
	assert.False(t, Priority("").Valid())
}

func TestPriorityRaiseLower(t *testing.T) {
	assert.Equal(t, PriorityHigh, PriorityHigh.Raise())
	assert.Equal(t, PriorityHigh, PriorityMedium.Raise())
	assert.Equal(t, PriorityMedium, PriorityLow.Raise())
	assert.Equal(t, PriorityLow, PriorityLow.Lower())
	assert.Equal(t, PriorityLow, PriorityMedium.Lower())
	assert.Equal(t, PriorityMedium, PriorityHigh.Lower())
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28", d.String())
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, "2023-12-31", Date{Year: 2024, Month: time.January, Day: 1}.AddDays(-1).String())
	assert.True(t, d.Before(d.AddDays(1)))
	assert.False(t, d.Before(d))

	_, err = ParseDate("2024-13-01")
	assert.Error(t, err)
	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	due := Date{Year: 2025, Month: time.March, Day: 7}
	in := Task{ID: "a", Text: "x", Priority: PriorityLow, DueDate: &due}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a","text":"x","completed":false,"priority":"low","dueDate":"2025-03-07"}`, string(data))

	var out Task
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	noDue, err := json.Marshal(Task{ID: "b", Text: "y", Priority: PriorityHigh})
	require.NoError(t, err)
	assert.NotContains(t, string(noDue), "dueDate")
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2025, time.June, 15, 9, 30, 0, 0, time.Local)
	today := Today(now)
	yesterday := today.AddDays(-1)
	tomorrow := today.AddDays(1)

	assert.False(t, IsOverdue(nil, false, now))
	assert.False(t, IsOverdue(&today, false, now))
	assert.False(t, IsOverdue(&today, true, now))
	assert.True(t, IsOverdue(&yesterday, false, now))
	assert.False(t, IsOverdue(&yesterday, true, now))
	assert.False(t, IsOverdue(&tomorrow, false, now))

	late := time.Date(2025, time.June, 15, 23, 59, 59, 0, time.Local)
	assert.False(t, IsOverdue(&today, false, late))

	tk := Task{DueDate: &yesterday}
	assert.True(t, tk.Overdue(now))
}

func TestRandomIDGenerator(t *testing.T) {
	g := NewIDGenerator()
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		require.NotEmpty(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestRandomIDGeneratorFallback(t *testing.T) {
	g := NewIDGenerator()
	g.random = func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy unavailable")
	}

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		id := g.Generate()
		require.Len(t, id, 26)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIDFunc(t *testing.T) {
	var g IDGenerator = IDFunc(func() string { return "fixed" })
	assert.Equal(t, "fixed", g.Generate())
}
