package ui

// Package ui contains the Fyne-based desktop user interface. It submits jobs
// to the download coordinator and renders the job events it receives from
// the event bus, one row per submitted URL.
