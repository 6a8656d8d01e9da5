package model

import (
	"errors"
	"testing"
)

func TestBoard_Lifecycle(t *testing.T) {
	b := NewBoard()
	job := NewDownloadJob("https://youtube.com/watch?v=a", "mp3")
	b.Add(job)

	v, ok := b.Get(job.URL)
	if !ok {
		t.Fatal("Expected view to exist")
	}
	if v.State != JobStatePending || v.Status != "Pending" {
		t.Fatalf("Expected pending view, got state=%s status=%s", v.State, v.Status)
	}

	steps := []struct {
		event   JobEvent
		state   JobState
		status  string
		percent int
	}{
		{TitleResolved{URL: job.URL, Title: "Song\nTitle"}, JobStatePending, "Pending", 0},
		{Progress{URL: job.URL, Percent: 42}, JobStateDownloading, "Downloading", 42},
		{Progress{URL: job.URL, Percent: 150}, JobStateDownloading, "Downloading", 100},
		{StatusChanged{URL: job.URL, Message: StatusConverting}, JobStateConverting, StatusConverting, 100},
		{StatusChanged{URL: job.URL, Message: StatusComplete}, JobStateCompleted, StatusComplete, 100},
		{Finished{URL: job.URL, FilePath: "/d/Song Title.mp3"}, JobStateCompleted, StatusComplete, 100},
	}

	for i, step := range steps {
		v, ok := b.Apply(step.event)
		if !ok {
			t.Fatalf("step %d: event not applied", i)
		}
		if v.State != step.state {
			t.Errorf("step %d: expected state %s, got %s", i, step.state, v.State)
		}
		if v.Status != step.status {
			t.Errorf("step %d: expected status %q, got %q", i, step.status, v.Status)
		}
		if v.Percent != step.percent {
			t.Errorf("step %d: expected percent %d, got %d", i, step.percent, v.Percent)
		}
	}

	if v.Title != "Song Title" {
		t.Errorf("Expected cleaned title, got %q", v.Title)
	}
	if v.OutputPath != "/d/Song Title.mp3" {
		t.Errorf("Unexpected output path %q", v.OutputPath)
	}

	b.SetFileSize(job.URL, 1500)
	if v.FileSize != 1500 {
		t.Errorf("Expected file size 1500, got %d", v.FileSize)
	}
}

func TestBoard_ErrorStatus(t *testing.T) {
	b := NewBoard()
	job := NewDownloadJob("https://youtube.com/watch?v=b", "mp4")
	b.Add(job)

	v, _ := b.Apply(ErrorStatus(job.URL, errors.New("boom")))
	if v.State != JobStateError {
		t.Errorf("Expected error state, got %s", v.State)
	}
	if v.Status != "Error: boom" {
		t.Errorf("Expected 'Error: boom', got %q", v.Status)
	}

	// a non-terminal metadata error is followed by download progress
	v, _ = b.Apply(Progress{URL: job.URL, Percent: 10})
	if v.State != JobStateDownloading {
		t.Errorf("Expected downloading state after progress, got %s", v.State)
	}
	if v.Status != "Error: boom" {
		t.Errorf("Expected error text to stay visible, got %q", v.Status)
	}
}

func TestBoard_UnknownURL(t *testing.T) {
	b := NewBoard()
	if _, ok := b.Apply(Progress{URL: "nope", Percent: 1}); ok {
		t.Error("Expected events for unknown URLs to be ignored")
	}
	b.SetFileSize("nope", 10)
}

func TestBoard_RepeatedURL(t *testing.T) {
	b := NewBoard()
	first := NewDownloadJob("https://youtube.com/watch?v=c", "mp4")
	second := NewDownloadJob("https://youtube.com/watch?v=c", "mp3")
	other := NewDownloadJob("https://youtube.com/watch?v=d", "mp4")

	firstView := b.Add(first)
	b.Add(other)
	secondView := b.Add(second)

	if b.Len() != 3 {
		t.Fatalf("Expected 3 rows, got %d", b.Len())
	}

	views := b.Views()
	if views[0] != secondView || views[2] != firstView {
		t.Error("Expected newest submission first")
	}

	b.Apply(Progress{URL: first.URL, Percent: 30})
	if secondView.Percent != 30 {
		t.Errorf("Expected newest row to receive events, got %d", secondView.Percent)
	}
	if firstView.Percent != 0 {
		t.Errorf("Expected older row to keep its state, got %d", firstView.Percent)
	}
}
