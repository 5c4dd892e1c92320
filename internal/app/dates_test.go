package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"phorg/internal/domain"
)

func TestDateFromName(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"IMG_20230415_103000.jpg", "2023-04-15", true},
		{"VID_20240101_000000.mp4", "2024-01-01", true},
		{"2023-04-15 holiday.png", "2023-04-15", true},
		{"20230415.jpg", "2023-04-15", true},
		{"photo1.jpg", "", false},
		{"IMG_1234.jpg", "", false},
		{"99999999.jpg", "", false},
		{"10871234_123456.jpg", "", false},
		{"19000101.jpg", "", false},
	}
	for _, tc := range cases {
		got, ok := dateFromName(tc.name)
		if ok != tc.ok {
			t.Fatalf("dateFromName(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if !ok {
			continue
		}
		if d := domain.DateOf(got); d.String() != tc.want {
			t.Fatalf("dateFromName(%q) = %s, want %s", tc.name, d, tc.want)
		}
	}
}

func TestResolveDateMetadataWins(t *testing.T) {
	fsys := newFakeFS()
	mod := time.Date(2024, time.April, 7, 10, 0, 0, 0, time.UTC)
	fsys.addFile("src/2023-04-15 party.jpg", "x", mod)

	meta := &fakeMetadata{dates: map[string]time.Time{
		"src/2023-04-15 party.jpg": time.Date(2020, time.January, 2, 9, 0, 0, 0, time.UTC),
	}}
	o := &Organizer{FS: fsys, Metadata: meta, PreferMetadata: true}

	info, _ := fsys.Stat("src/2023-04-15 party.jpg")
	date := o.resolveDate(context.Background(), testLogger(), "src/2023-04-15 party.jpg", info)
	if date.String() != "2020-01-02" {
		t.Fatalf("date = %s, want 2020-01-02", date)
	}
}

func TestResolveDateFallsBackToName(t *testing.T) {
	fsys := newFakeFS()
	mod := time.Date(2024, time.April, 7, 10, 0, 0, 0, time.UTC)
	fsys.addFile("src/2023-04-15 party.jpg", "x", mod)

	meta := &fakeMetadata{err: errors.New("no metadata support")}
	o := &Organizer{FS: fsys, Metadata: meta, PreferMetadata: true}

	info, _ := fsys.Stat("src/2023-04-15 party.jpg")
	date := o.resolveDate(context.Background(), testLogger(), "src/2023-04-15 party.jpg", info)
	if date.String() != "2023-04-15" {
		t.Fatalf("date = %s, want 2023-04-15", date)
	}
}

func TestResolveDateIgnoresMetadataWhenNotPreferred(t *testing.T) {
	fsys := newFakeFS()
	mod := time.Date(2024, time.April, 7, 10, 0, 0, 0, time.UTC)
	fsys.addFile("src/2023-04-15 party.jpg", "x", mod)

	meta := &fakeMetadata{dates: map[string]time.Time{
		"src/2023-04-15 party.jpg": time.Date(2020, time.January, 2, 9, 0, 0, 0, time.UTC),
	}}
	o := &Organizer{FS: fsys, Metadata: meta}

	info, _ := fsys.Stat("src/2023-04-15 party.jpg")
	date := o.resolveDate(context.Background(), testLogger(), "src/2023-04-15 party.jpg", info)
	if date.String() != "2023-04-15" {
		t.Fatalf("date = %s, want 2023-04-15", date)
	}
}

func TestResolveDateUsesCreationTime(t *testing.T) {
	fsys := newFakeFS()
	mod := time.Date(2024, time.April, 7, 10, 0, 0, 0, time.UTC)
	fsys.addFile("src/party.jpg", "x", mod)
	fsys.files["src/party.jpg"].created = time.Date(2019, time.June, 7, 8, 0, 0, 0, time.UTC)

	o := &Organizer{FS: fsys}

	info, _ := fsys.Stat("src/party.jpg")
	date := o.resolveDate(context.Background(), testLogger(), "src/party.jpg", info)
	if date.String() != "2019-06-07" {
		t.Fatalf("date = %s, want 2019-06-07", date)
	}
}

func TestResolveDateFallsBackToModTime(t *testing.T) {
	fsys := newFakeFS()
	mod := time.Date(2024, time.April, 7, 10, 0, 0, 0, time.UTC)
	fsys.addFile("src/party.jpg", "x", mod)
	fsys.creationErr["src/party.jpg"] = errors.New("not supported")

	o := &Organizer{FS: fsys}

	info, _ := fsys.Stat("src/party.jpg")
	date := o.resolveDate(context.Background(), testLogger(), "src/party.jpg", info)
	if date.String() != "2024-04-07" {
		t.Fatalf("date = %s, want 2024-04-07", date)
	}
}
