package models

import "testing"

func TestEntityKindContentType(t *testing.T) {
	tests := []struct {
		kind EntityKind
		want string
	}{
		{kind: KindPost, want: "post"},
		{kind: KindMedia, want: "attachment"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.ContentType(); got != tt.want {
				t.Errorf("ContentType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFeaturedImageGUID(t *testing.T) {
	tests := []struct {
		name     string
		meta     map[string][]string
		wantGUID string
		wantOK   bool
	}{
		{
			name:     "present",
			meta:     map[string][]string{FeaturedImageKey: {"http://remote.test/img.jpg"}},
			wantGUID: "http://remote.test/img.jpg",
			wantOK:   true,
		},
		{name: "absent", meta: map[string][]string{"other": {"x"}}, wantOK: false},
		{name: "empty list", meta: map[string][]string{FeaturedImageKey: {}}, wantOK: false},
		{name: "empty value", meta: map[string][]string{FeaturedImageKey: {""}}, wantOK: false},
		{name: "nil meta", meta: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := RemotePost{Meta: tt.meta}
			guid, ok := post.FeaturedImageGUID()
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if guid != tt.wantGUID {
				t.Errorf("guid = %q, want %q", guid, tt.wantGUID)
			}
		})
	}
}

func TestTransferStateAdvance(t *testing.T) {
	t.Run("percentage never decreases", func(t *testing.T) {
		state := TransferState{Page: 1, PerPage: 10, TotalPages: 4}

		var last float64
		for !state.Complete() {
			state.Advance()
			if state.Percentage < last {
				t.Fatalf("percentage dropped from %.2f to %.2f", last, state.Percentage)
			}
			last = state.Percentage
		}
		if state.Percentage != 100 {
			t.Errorf("final percentage = %.2f, want 100", state.Percentage)
		}
	})

	t.Run("clamps past the final page", func(t *testing.T) {
		state := TransferState{Page: 5, TotalPages: 3}
		state.Advance()
		if state.Percentage != 100 {
			t.Errorf("percentage = %.2f, want 100", state.Percentage)
		}
	})

	t.Run("single page", func(t *testing.T) {
		state := TransferState{Page: 1, TotalPages: 1}
		state.Advance()
		if state.Percentage != 100 {
			t.Errorf("percentage = %.2f, want 100", state.Percentage)
		}
		if !state.Complete() {
			t.Error("expected completion after the only page")
		}
	})

	t.Run("mid transfer", func(t *testing.T) {
		state := TransferState{Page: 1, TotalPages: 2}
		state.Advance()
		if state.Percentage != 50 {
			t.Errorf("percentage = %.2f, want 50", state.Percentage)
		}
		if state.Page != 2 {
			t.Errorf("page = %d, want 2", state.Page)
		}
		if state.Complete() {
			t.Error("transfer should not be complete at page 2 of 2")
		}
	})
}

func TestTransferStateComplete(t *testing.T) {
	tests := []struct {
		name  string
		state TransferState
		want  bool
	}{
		{name: "zero total before first cycle", state: TransferState{Page: 1}, want: false},
		{name: "zero total after first cycle", state: TransferState{Page: 2}, want: true},
		{name: "pages remaining", state: TransferState{Page: 2, TotalPages: 3}, want: false},
		{name: "final page pending", state: TransferState{Page: 3, TotalPages: 3}, want: false},
		{name: "past the final page", state: TransferState{Page: 4, TotalPages: 3}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}
