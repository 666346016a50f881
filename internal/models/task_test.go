package models

import (
	"encoding/json"
	"testing"
)

func TestTaskValidation_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty title should fail",
			task:    Task{ID: "a", Title: "", Priority: PriorityLow},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "whitespace title should fail",
			task:    Task{ID: "a", Title: "   ", Priority: PriorityLow},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "empty id should fail",
			task:    Task{ID: "", Title: "Buy milk", Priority: PriorityLow},
			wantErr: true,
			errMsg:  "id is required",
		},
		{
			name:    "valid task should pass",
			task:    Task{ID: "a", Title: "Buy milk", Priority: PriorityLow},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestTaskValidation_PriorityValues(t *testing.T) {
	tests := []struct {
		name     string
		priority Priority
		wantErr  bool
	}{
		{name: "high priority is valid", priority: PriorityHigh},
		{name: "medium priority is valid", priority: PriorityMedium},
		{name: "low priority is valid", priority: PriorityLow},
		{name: "empty priority should fail", priority: "", wantErr: true},
		{name: "invalid priority should fail", priority: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{ID: "a", Title: "Test", Priority: tt.priority}
			err := task.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "", want: PriorityLow},
		{in: "  ", want: PriorityLow},
		{in: "low", want: PriorityLow},
		{in: "Medium", want: PriorityMedium},
		{in: " HIGH ", want: PriorityHigh},
		{in: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePriority(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParsePriority(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePriority(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePriority(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPriorityOrder(t *testing.T) {
	if PriorityHigh.Order() >= PriorityMedium.Order() {
		t.Error("expected high to sort before medium")
	}
	if PriorityMedium.Order() >= PriorityLow.Order() {
		t.Error("expected medium to sort before low")
	}
	if Priority("unknown").Order() != 99 {
		t.Error("expected unknown priority to sort last")
	}
}

func TestPriorities_MostUrgentFirst(t *testing.T) {
	got := Priorities()
	want := []Priority{PriorityHigh, PriorityMedium, PriorityLow}
	if len(got) != len(want) {
		t.Fatalf("expected %d priorities, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
		if !got[i].Valid() {
			t.Errorf("expected %s to be valid", got[i])
		}
	}
}

func TestTaskJSONShape(t *testing.T) {
	task := Task{ID: "id-1", Title: "Buy milk", Priority: PriorityHigh}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"id":"id-1","title":"Buy milk","description":"","completed":false,"priority":"high"}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}
