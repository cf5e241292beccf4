package meetingservice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/starford/dagaz/internal/apperr"
	"github.com/starford/dagaz/internal/store"
	"github.com/starford/dagaz/internal/testutil"
)

type capturedEvent struct {
	kind      string
	meetingID string
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) PublishMeetingEvent(kind, meetingID string) {
	f.events = append(f.events, capturedEvent{kind, meetingID})
}

func (f *fakePublisher) last() capturedEvent {
	if len(f.events) == 0 {
		return capturedEvent{}
	}
	return f.events[len(f.events)-1]
}

func TestCreateMeeting_PublishesEvent(t *testing.T) {
	db := testutil.TestDB(t)
	pub := &fakePublisher{}
	svc := NewService(db, nil, pub)
	ctx := context.Background()

	if err := svc.CreateMeeting(ctx, "m1", "Standup"); err != nil {
		t.Fatalf("CreateMeeting: %v", err)
	}
	if got := pub.last(); got.kind != "meeting.created" || got.meetingID != "m1" {
		t.Errorf("event = %+v", got)
	}

	// A rejected duplicate must not publish.
	n := len(pub.events)
	if err := svc.CreateMeeting(ctx, "m1", "Standup"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v", err)
	}
	if len(pub.events) != n {
		t.Error("failed create published an event")
	}
}

func TestUpdateProcess_TerminalEvents(t *testing.T) {
	db := testutil.TestDB(t)
	pub := &fakePublisher{}
	svc := NewService(db, nil, pub)
	ctx := context.Background()

	if _, err := svc.CreateProcess(ctx, "m1"); err != nil {
		t.Fatal(err)
	}
	if got := pub.last(); got.kind != "process.pending" {
		t.Errorf("event = %+v", got)
	}

	if err := svc.UpdateProcess(ctx, "m1", store.ProcessUpdate{Status: "CHUNKING"}); err != nil {
		t.Fatal(err)
	}
	if got := pub.last(); got.kind == "process.completed" || got.kind == "process.failed" {
		t.Error("non-terminal update published a terminal event")
	}

	if err := svc.UpdateProcess(ctx, "m1", store.ProcessUpdate{Status: store.StatusCompleted}); err != nil {
		t.Fatal(err)
	}
	if got := pub.last(); got.kind != "process.completed" || got.meetingID != "m1" {
		t.Errorf("event = %+v", got)
	}

	errMsg := "boom"
	if err := svc.UpdateProcess(ctx, "m1", store.ProcessUpdate{Status: store.StatusFailed, Error: &errMsg}); err != nil {
		t.Fatal(err)
	}
	if got := pub.last(); got.kind != "process.failed" {
		t.Errorf("event = %+v", got)
	}
}

func TestService_NilPublisher(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewService(db, nil, nil)
	ctx := context.Background()

	// Must not panic without a publisher.
	if err := svc.CreateMeeting(ctx, "m1", "Standup"); err != nil {
		t.Fatal(err)
	}
	if ok := svc.DeleteMeeting(ctx, "m1"); !ok {
		t.Error("delete failed")
	}
}

func TestAPIKey_ProviderValidation(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewService(db, nil, nil)
	ctx := context.Background()

	if err := svc.SaveAPIKey(ctx, "azure", "k"); !errors.Is(err, apperr.ErrInvalidProvider) {
		t.Fatalf("err = %v, want ErrInvalidProvider", err)
	}
	if _, err := svc.GetAPIKey(ctx, "azure"); !errors.Is(err, apperr.ErrInvalidProvider) {
		t.Fatalf("err = %v, want ErrInvalidProvider", err)
	}
	if err := svc.DeleteAPIKey(ctx, "azure"); !errors.Is(err, apperr.ErrInvalidProvider) {
		t.Fatalf("err = %v, want ErrInvalidProvider", err)
	}

	if err := svc.SaveAPIKey(ctx, "claude", "sk-ant"); err != nil {
		t.Fatalf("SaveAPIKey: %v", err)
	}
	key, err := svc.GetAPIKey(ctx, "claude")
	if err != nil {
		t.Fatal(err)
	}
	if key != "sk-ant" {
		t.Errorf("key = %q", key)
	}
}

func TestStoreRecording(t *testing.T) {
	db := testutil.TestDB(t)
	_, recs := testutil.TestRecordings(t)
	pub := &fakePublisher{}
	svc := NewService(db, recs, pub)
	ctx := context.Background()

	up, err := svc.StoreRecording(ctx, "standup-2025-03-14.wav", []byte("RIFFdata"))
	if err != nil {
		t.Fatalf("StoreRecording: %v", err)
	}
	if up.MeetingID != "standup-2025-03-14" {
		t.Errorf("meeting id = %q", up.MeetingID)
	}
	if up.Size != 8 || up.Checksum == "" {
		t.Errorf("upload = %+v", up)
	}
	if _, err := db.GetMeeting("standup-2025-03-14"); err != nil {
		t.Errorf("meeting not registered: %v", err)
	}

	// Re-upload for the same meeting succeeds and does not duplicate.
	if _, err := svc.StoreRecording(ctx, "standup-2025-03-14.wav", []byte("RIFFdata2")); err != nil {
		t.Fatalf("re-upload: %v", err)
	}
	items, _ := db.ListMeetings()
	if len(items) != 1 {
		t.Errorf("meetings = %d, want 1", len(items))
	}
}

func TestStoreRecording_NoStorage(t *testing.T) {
	db := testutil.TestDB(t)
	svc := NewService(db, nil, nil)
	if _, err := svc.StoreRecording(context.Background(), "a.wav", []byte("x")); err == nil {
		t.Fatal("expected error without recordings storage")
	}
}

func TestRegisterRecording_Idempotent(t *testing.T) {
	db := testutil.TestDB(t)
	pub := &fakePublisher{}
	svc := NewService(db, nil, pub)

	if err := svc.RegisterRecording("/data/recordings/standup.wav"); err != nil {
		t.Fatalf("RegisterRecording: %v", err)
	}
	n := len(pub.events)
	if err := svc.RegisterRecording("/data/recordings/standup.wav"); err != nil {
		t.Fatalf("repeat RegisterRecording: %v", err)
	}
	if len(pub.events) != n {
		t.Error("repeat registration published an event")
	}
}

func TestMeetingIDForFile(t *testing.T) {
	cases := map[string]string{
		"/data/recordings/standup.wav":  "standup",
		"team-sync.mp3":                 "team-sync",
		"nested/dir/retro.m4a":          "retro",
		"/data/recordings/no-extension": "no-extension",
		"weekly.review.ogg":             "weekly.review",
	}
	for path, want := range cases {
		if got := MeetingIDForFile(path); got != want {
			t.Errorf("MeetingIDForFile(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDecodeDocument(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantNil bool
		wantErr bool
	}{
		{"empty", "", true, false},
		{"json null", "null", true, false},
		{"object", `{"summary":"ok"}`, false, false},
		{"array", `[1,2]`, false, false},
		{"malformed", `{"summary":`, false, true},
		{"trailing garbage", `{} extra`, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeDocument(json.RawMessage(tc.in))
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if tc.wantNil != (got == nil) {
				t.Errorf("got = %q, wantNil = %v", got, tc.wantNil)
			}
		})
	}
}
